package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrEmptySecret is returned when a token service is created without signing secret.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// Claims carries the user id and session id of an access token.
type Claims struct {
	UserID    uint64 `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenService handles token generation and validation.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a token service signing with secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &TokenService{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue creates a token for session sessionID of userID that expires at expiresAt.
func (s *TokenService) Issue(userID uint64, sessionID string, expiresAt time.Time) (string, error) {
	now := s.now()

	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret) //nolint:wrapcheck
}

// Verify checks signature and expiry of token and returns its claims.
// Failures are *Error of kind TokenExpired or InvalidToken.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := new(Claims)

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, Wrap(KindTokenExpired, "token expired", err)
		}

		return nil, Wrap(KindInvalidToken, "invalid token", err)
	}

	if !parsed.Valid || claims.UserID == 0 || claims.SessionID == "" {
		return nil, NewError(KindInvalidToken, "invalid token")
	}

	return claims, nil
}
