package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rcanepa/docker-testdriven-app/internal/apperrors"
)

const (
	defaultTokenTTL      = 15 * time.Minute
	defaultSigningMethod = "HS256"
)

type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Token lifetime
	// If not set than default is used
	// Negative values are allowed: issued tokens expire immediately
	TTL time.Duration
}

type TokenManager struct {
	// Secret key to sign tokens
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Token lifetime, read at issue time
	ttl time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.TTL == 0 {
		cfg.TTL = defaultTokenTTL
	}

	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method: %q", cfg.Alg)
	}

	return &TokenManager{
		key: cfg.SecretKey,
		alg: alg,
		ttl: cfg.TTL,
	}, nil
}

// SetTTL changes token lifetime for tokens issued after the call
// Already issued tokens keep their original expiry
func (m *TokenManager) SetTTL(ttl time.Duration) {
	m.ttl = ttl
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue generates signed token for the user
func (m *TokenManager) Issue(userID int64) (string, error) {
	now := time.Now().Truncate(time.Second)

	token := jwt.NewWithClaims(
		m.alg,
		AccessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			},
			UserID: userID,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}

	return signed, nil
}

// Parse validates token signature and expiry and returns the user id
// Expired tokens map to apperrors.ErrTokenExpired, everything else that fails
// to verify maps to apperrors.ErrTokenInvalid
// Revocation is not checked here, that is the auth service concern
func (m *TokenManager) Parse(tokenString string) (int64, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case err == nil:
		return claims.UserID, nil
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return 0, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
	default:
		return 0, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}
}
