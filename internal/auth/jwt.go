package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenTTL is the fixed bearer token lifetime. Tokens are non-renewable and
// non-revocable; logout is a client-side discard.
const TokenTTL = 7 * 24 * time.Hour

// Claims are the statements encoded in every issued token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// JWTService issues and verifies HS256-signed bearer tokens.
type JWTService struct {
	secret []byte
}

func NewJWTService(secret []byte) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	return &JWTService{secret: secret}, nil
}

// CreateToken signs a token binding the user ID with a 7-day expiry.
func (s *JWTService) CreateToken(userID int64) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: userID,
	})

	return token.SignedString(s.secret)
}

// VerifyToken validates a token and returns the user ID it binds. Malformed,
// mis-signed, and expired tokens all fail with ErrInvalidToken; callers get
// no further detail.
func (s *JWTService) VerifyToken(tokenStr string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

var _ TokenService = (*JWTService)(nil)
