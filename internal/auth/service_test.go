package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/internal/users"
	pkgAuth "github.com/rewear/rewear-backend/pkg/auth"
	"github.com/rewear/rewear-backend/pkg/auth/session"
	"github.com/rewear/rewear-backend/pkg/config"
	"github.com/rewear/rewear-backend/pkg/db/models"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	testJWT      = config.JWTConfig{Secret: "test-secret", Issuer: "rewear", ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60}
	testPassword = config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func (f *fakeUsers) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := dto.ToModel()
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	u.ID = uuid.New()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	err      error
}

func (f *fakeSessions) Start(_ context.Context, userID uuid.UUID) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return session.Session{}, f.err
	}
	s := session.Session{AccessID: uuid.NewString(), RefreshToken: uuid.NewString(), UserID: userID}
	f.sessions[s.AccessID] = s
	return s, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (session.Session, error) {
	f.mu.Lock()
	current, ok := f.sessions[oldAccessID]
	if !ok || current.RefreshToken != provided {
		f.mu.Unlock()
		return session.Session{}, session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	f.mu.Unlock()
	return f.Start(ctx, current.UserID)
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, accessID)
	return nil
}

func newTestService(t *testing.T, now time.Time) (Service, *fakeSessions) {
	t.Helper()
	sessions := &fakeSessions{sessions: map[string]session.Session{}}
	svc, err := NewService(ServiceParams{
		UserRepo:       &fakeUsers{byEmail: map[string]*models.User{}},
		SessionManager: sessions,
		JWTConfig:      testJWT,
		PasswordConfig: testPassword,
		Now:            func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc, sessions
}

func TestRegisterThenLogin(t *testing.T) {
	svc, sessions := newTestService(t, time.Now())
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: " Ana@Example.com ", Password: "hunter22", Location: "Oslo"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Contains(t, sessions.sessions, claims.ID)

	login, err := svc.Login(ctx, LoginRequest{Email: "ANA@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Ana 2", Email: "ana@example.com", Password: "hunter22"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc, sessions := newTestService(t, issuedAt)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	_, err = pkgAuth.ParseAccessToken(testJWT, reg.AccessToken)
	require.Error(t, err)

	pair, err := svc.Refresh(ctx, reg.AccessToken, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, pair.RefreshToken)
	assert.Len(t, sessions.sessions, 1)

	_, err = svc.Refresh(ctx, reg.AccessToken, reg.RefreshToken)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRejectsForeignToken(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	other := testJWT
	other.Secret = "someone-else"
	forged, err := pkgAuth.MintAccessToken(other, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), forged, "whatever")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newTestService(t, time.Now())
	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	claims, err := pkgAuth.ParseAccessToken(testJWT, reg.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	assert.Empty(t, sessions.sessions)
	assert.True(t, pkgerrors.IsCode(svc.Logout(ctx, ""), pkgerrors.CodeUnauthorized))
}

func TestRegisterSurfacesSessionFailure(t *testing.T) {
	svc, sessions := newTestService(t, time.Now())
	sessions.err = errors.New("redis down")

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
