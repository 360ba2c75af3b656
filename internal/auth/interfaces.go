package auth

import (
	"context"

	"taskhub/internal/user"
)

// TokenService defines the interface for bearer token creation and
// validation. The production implementation is JWTService (HS256).
type TokenService interface {
	CreateToken(userID int64) (string, error)
	VerifyToken(tokenStr string) (int64, error)
}

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
}
