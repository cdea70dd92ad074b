package models

import (
	"time"
)

// RevokedToken is a blacklist entry. Once a token string is stored here it is
// rejected by the auth service until it would have expired anyway (and after).
type RevokedToken struct {
	Token     string
	RevokedAt time.Time
}
