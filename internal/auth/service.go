package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNameRequired       = errors.New("name is required")
)

const (
	minPasswordLen = 6
	bcryptCost     = 10
)

// Service handles signup, login, and current-user resolution.
type Service struct {
	users  UserStore
	tokens TokenService
}

func NewService(users UserStore, tokens TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Signup validates the input, hashes the password, persists the user, and
// issues a bearer token. Duplicate emails surface as user.ErrDuplicateEmail
// whether caught here or at the store's unique constraint.
func (s *Service) Signup(ctx context.Context, email, password, name string) (string, *user.User, error) {
	if err := validateEmail(email); err != nil {
		return "", nil, err
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}
	if len(password) < minPasswordLen {
		return "", nil, ErrPasswordTooShort
	}
	if name == "" {
		return "", nil, ErrNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, email, string(hash), name)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return "", nil, user.ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, newUser, nil
}

// Login verifies credentials and issues a bearer token. An unknown email and
// a wrong password fail identically so callers cannot tell which part was
// wrong.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	if err := validateEmail(email); err != nil {
		return "", nil, err
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token: %w", err)
	}

	return token, existing, nil
}

// CurrentUser resolves the user id from a verified token to a stored user.
// A structurally valid token whose user was deleted out of band fails with
// user.ErrNotFound.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > 254 {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
