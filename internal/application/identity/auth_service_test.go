package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/auth"
	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindByNode(ctx context.Context, nodeID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, nodeID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newAuthTestService(repo *MockUserRepository, publisher *MockEventPublisher) *AuthService {
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		MaxRefreshCount:        50,
		Issuer:                 "orderhub-test",
	})
	return NewAuthService(repo, tokens, auth.NewInMemoryTokenBlacklist(), publisher, zap.NewNop())
}

func activeUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewActiveUser("alice", password, identity.RolePlatformAdmin)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	resp, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct-horse-battery",
	}, "203.0.113.7")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "203.0.113.7", user.LastLoginIP)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

	_, err := service.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever1"}, "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPasswordCountsFailure(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	}, "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestLoginLockedAccount(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")
	until := time.Now().Add(10 * time.Minute)
	user.Status = identity.UserStatusLocked
	user.LockedUntil = &until

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct-horse-battery",
	}, "")

	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginExpiredLockoutUnlocks(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")
	until := time.Now().Add(-time.Minute)
	user.Status = identity.UserStatusLocked
	user.LockedUntil = &until

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct-horse-battery",
	}, "")

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, identity.UserStatusActive, user.Status)
}

func TestRefreshRotatesPair(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	login, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct-horse-battery",
	}, "")
	require.NoError(t, err)

	pair, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: login.Tokens.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)
}

func TestRefreshAfterLogoutAll(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")

	repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	login, err := service.Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: "correct-horse-battery",
	}, "")
	require.NoError(t, err)

	// The blacklist compares issued-at seconds, so the revocation moment
	// must pass before it takes effect.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, service.LogoutAll(context.Background(), user.ID))

	_, err = service.Refresh(context.Background(), RefreshRequest{RefreshToken: login.Tokens.RefreshToken})

	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newAuthTestService(repo, publisher)

	user := activeUser(t, "correct-horse-battery")
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	err := service.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "not-the-password",
		NewPassword: "a-new-password-123",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}
