package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("token: invalid")

// Claims is the login token payload. ID (jti) is the session token that the
// sessions table tracks for revocation.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 login tokens.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn}
}

func (t *TokenService) ExpiresIn() time.Duration {
	return t.expiresIn
}

// GenerateToken signs a token for sessionID issued at now.
func (t *TokenService) GenerateToken(userID, sessionID uuid.UUID, role string, now time.Time) (string, time.Time, error) {
	if userID == uuid.Nil || sessionID == uuid.Nil {
		return "", time.Time{}, errors.New("token: user id and session id are required")
	}

	expiresAt := now.Add(t.expiresIn)
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies the signature and expiry and returns the claims
// together with the parsed session id.
func (t *TokenService) ValidateToken(tokenString string) (*Claims, uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, uuid.Nil, ErrInvalidToken
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	return claims, sessionID, nil
}
