package models

import (
	"time"
)

type User struct {
	ID           int64
	CreatedAt    time.Time
	Username     string
	Email        string
	PasswordHash string
	Active       bool
}
