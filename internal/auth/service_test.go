package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/user"
)

type fakeUserStore struct {
	users  map[string]*user.User // keyed by email
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (f *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (*user.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, user.ErrDuplicateEmail
	}
	f.nextID++
	u := &user.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
	}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func newTestService(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	store := newFakeUserStore()
	return NewService(store, tokens), store
}

func TestSignupThenLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	signupToken, created, err := svc.Signup(ctx, "a@b.com", "secret123", "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, signupToken)
	assert.Equal(t, "a@b.com", created.Email)
	assert.Equal(t, "Ann", created.Name)
	assert.NotEqual(t, "secret123", created.PasswordHash)

	// The signup token resolves to the created user.
	verified, err := svc.tokens.VerifyToken(signupToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, verified)

	// The same credentials log in and bind the same user id.
	loginToken, loggedIn, err := svc.Login(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loggedIn.ID)

	verified, err = svc.tokens.VerifyToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, verified)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "a@b.com", "secret123", "Ann")
	require.NoError(t, err)

	// Duplicate regardless of password and name.
	_, _, err = svc.Signup(ctx, "a@b.com", "different-pass", "Bob")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{"empty email", "", "secret123", "Ann", ErrEmailRequired},
		{"bad email shape", "not-an-email", "secret123", "Ann", ErrInvalidEmail},
		{"empty password", "a@b.com", "", "Ann", ErrPasswordRequired},
		{"short password", "a@b.com", "12345", "Ann", ErrPasswordTooShort},
		{"empty name", "a@b.com", "secret123", "", ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tt.email, tt.password, tt.userName)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "a@b.com", "secret123", "Ann")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, _, unknownErr := svc.Login(ctx, "nobody@b.com", "secret123")
	_, _, wrongPassErr := svc.Login(ctx, "a@b.com", "wrong-pass")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestCurrentUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, created, err := svc.Signup(ctx, "a@b.com", "secret123", "Ann")
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	// A valid token can still point at a user deleted out of band.
	delete(store.users, "a@b.com")
	_, err = svc.CurrentUser(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
