package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/user"
)

// fakeUserStore guarda usuários em memória, com a mesma semântica de erros
// do repositório Postgres.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User // por id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, username, email, passwordHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return "", errs.New(errs.Conflict, "username or email already registered")
		}
	}
	id := uuid.NewString()
	f.users[id] = &user.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	return id, nil
}

func (f *fakeUserStore) ByID(ctx context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errs.New(errs.NotFound, "user not found")
}

func (f *fakeUserStore) ByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if (u.Username == identifier || u.Email == identifier) && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.New(errs.NotFound, "user not found")
}

func (f *fakeUserStore) ByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.New(errs.NotFound, "user not found")
}

func (f *fakeUserStore) ByResetToken(ctx context.Context, token string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.New(errs.Unauthorized, "invalid reset token")
}

func (f *fakeUserStore) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.IsActive {
			u.ResetToken = &token
			u.ResetTokenExpiresAt = &expiresAt
			return nil
		}
	}
	return errs.New(errs.NotFound, "email not found")
}

func (f *fakeUserStore) ConsumeResetToken(ctx context.Context, token, newPasswordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.IsActive {
			u.PasswordHash = newPasswordHash
			u.ResetToken = nil
			u.ResetTokenExpiresAt = nil
			return nil
		}
	}
	return errs.New(errs.Unauthorized, "invalid reset token")
}

func newTestService(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	tokens := NewTokenIssuer("test-secret", time.Minute, time.Hour)
	return NewService(zap.NewNop(), store, tokens), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// login por username
	tok, err := svc.Login(ctx, "joao", "senha123")
	require.NoError(t, err)

	userID, err := svc.ResolveToken(tok)
	require.NoError(t, err)
	require.Equal(t, id, userID)

	// login por email
	_, err = svc.Login(ctx, "joao@example.com", "senha123")
	require.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"empty username", "", "a@b.com", "senha123"},
		{"email without at", "joao", "not-an-email", "senha123"},
		{"short password", "joao", "a@b.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			require.True(t, errs.Is(err, errs.InvalidArgument))
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "joao", "outro@example.com", "senha123")
	require.True(t, errs.Is(err, errs.Conflict))

	_, err = svc.Register(ctx, "outro", "joao@example.com", "senha123")
	require.True(t, errs.Is(err, errs.Conflict))
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "joao", "senha-errada")
	require.True(t, errs.Is(err, errs.Unauthorized))

	_, err = svc.Login(ctx, "nao-existe", "senha123")
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestLoginInactiveUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)
	store.users[id].IsActive = false

	_, err = svc.Login(ctx, "joao", "senha123")
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)

	tok, err := svc.RequestPasswordReset(ctx, "joao@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	require.NoError(t, svc.ResetPassword(ctx, tok, "nova-senha"))

	// senha antiga morreu, nova funciona
	_, err = svc.Login(ctx, "joao", "senha123")
	require.True(t, errs.Is(err, errs.Unauthorized))
	_, err = svc.Login(ctx, "joao", "nova-senha")
	require.NoError(t, err)

	// token é de uso único
	err = svc.ResetPassword(ctx, tok, "outra-senha")
	require.True(t, errs.Is(err, errs.Unauthorized))
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RequestPasswordReset(context.Background(), "ninguem@example.com")
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestPasswordResetRejectsInactiveAccount(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)

	// conta desativada não recebe token de reset
	store.users[id].IsActive = false
	_, err = svc.RequestPasswordReset(ctx, "joao@example.com")
	require.True(t, errs.Is(err, errs.NotFound))

	// token emitido antes da desativação também não consome
	store.users[id].IsActive = true
	tok, err := svc.RequestPasswordReset(ctx, "joao@example.com")
	require.NoError(t, err)
	store.users[id].IsActive = false

	err = svc.ResetPassword(ctx, tok, "nova-senha")
	require.True(t, errs.Is(err, errs.Unauthorized))
}

func TestPasswordResetExpiredToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "joao", "joao@example.com", "senha123")
	require.NoError(t, err)

	tok, err := svc.RequestPasswordReset(ctx, "joao@example.com")
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	store.users[id].ResetTokenExpiresAt = &past

	err = svc.ResetPassword(ctx, tok, "nova-senha")
	require.True(t, errs.Is(err, errs.Unauthorized))
}

func TestResetPasswordTooShort(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), "qualquer", "123")
	require.True(t, errs.Is(err, errs.InvalidArgument))
}
