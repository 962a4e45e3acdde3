package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookstore-api/internal/domain/user"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/jwt"
)

type fakeSessions struct {
	mu        sync.Mutex
	sessions  map[string]map[string]interface{}
	blacklist map[string]time.Duration
	err       error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions:  make(map[string]map[string]interface{}),
		blacklist: make(map[string]time.Duration),
	}
}

func (f *fakeSessions) SaveSession(_ context.Context, userID string, data map[string]interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions[userID] = data
	return nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.sessions, userID)
	return nil
}

func (f *fakeSessions) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blacklist[token] = ttl
	return nil
}

type fixture struct {
	users    user.Repository
	service  user.Service
	jwt      *jwt.Manager
	sessions *fakeSessions
}

func newFixture() *fixture {
	users := memory.NewUserRepository(memory.NewStore())
	return &fixture{
		users:    users,
		service:  user.NewService(users, bcrypt.MinCost),
		jwt:      jwt.NewManager("test-secret", time.Hour, 24*time.Hour),
		sessions: newFakeSessions(),
	}
}

func (f *fixture) register(t *testing.T) *UserInfo {
	t.Helper()
	info, err := NewRegisterUseCase(f.service).Execute(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return info
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	info := f.register(t)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "alice@example.com", info.Email)

	t.Run("重复注册", func(t *testing.T) {
		_, err := NewRegisterUseCase(f.service).Execute(ctx, RegisterRequest{
			Username: "alice2", Email: "alice@example.com", Password: "secret123",
		})
		require.ErrorIs(t, err, user.ErrUserDuplicate)
		assert.Equal(t, 409, apperrors.GetAppError(err).Status())
	})

	t.Run("参数校验", func(t *testing.T) {
		_, err := NewRegisterUseCase(f.service).Execute(ctx, RegisterRequest{
			Username: "ab", Email: "not-an-email", Password: "123",
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Len(t, apperrors.GetAppError(err).Details, 3)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	info := f.register(t)
	uc := NewLoginUseCase(f.service, f.jwt, f.sessions, 24*time.Hour, nil)

	t.Run("成功", func(t *testing.T) {
		resp, err := uc.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, info.ID, resp.User.ID)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := f.jwt.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, info.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Contains(t, f.sessions.sessions, info.ID)
	})

	t.Run("密码错误与用户不存在返回同一错误", func(t *testing.T) {
		_, err := uc.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
		require.ErrorIs(t, err, apperrors.ErrInvalidPassword)
		_, err = uc.Execute(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		require.ErrorIs(t, err, apperrors.ErrInvalidPassword)
		assert.Equal(t, 401, apperrors.GetAppError(err).Status())
	})

	t.Run("会话保存失败不影响登录", func(t *testing.T) {
		f.sessions.err = errors.New("redis down")
		defer func() { f.sessions.err = nil }()

		_, err := uc.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)
	})

	t.Run("未启用Redis", func(t *testing.T) {
		_, err := NewLoginUseCase(f.service, f.jwt, nil, time.Hour, nil).
			Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"})
		require.NoError(t, err)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.sessions.sessions["u1"] = map[string]interface{}{}

	require.NoError(t, NewLogoutUseCase(f.sessions).Execute(ctx, "u1", "token-1", time.Minute))
	assert.NotContains(t, f.sessions.sessions, "u1")
	assert.Equal(t, time.Minute, f.sessions.blacklist["token-1"])

	// 已过期的Token无需拉黑
	require.NoError(t, NewLogoutUseCase(f.sessions).Execute(ctx, "u1", "token-2", 0))
	assert.NotContains(t, f.sessions.blacklist, "token-2")

	f.sessions.err = errors.New("redis down")
	err := NewLogoutUseCase(f.sessions).Execute(ctx, "u1", "token-3", time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrRedisError)

	assert.NoError(t, NewLogoutUseCase(nil).Execute(ctx, "u1", "token-4", time.Minute))
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	info := f.register(t)

	pair, err := f.jwt.GenerateToken(info.ID, info.Email, info.Username)
	require.NoError(t, err)
	uc := NewRefreshTokenUseCase(f.jwt, f.users)

	resp, err := uc.Execute(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	t.Run("不能用Access Token刷新", func(t *testing.T) {
		_, err := uc.Execute(ctx, pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("用户不存在", func(t *testing.T) {
		ghost, err := f.jwt.GenerateToken("ghost", "", "")
		require.NoError(t, err)
		_, err = uc.Execute(ctx, ghost.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestMe(t *testing.T) {
	f := newFixture()
	info := f.register(t)

	got, err := NewMeUseCase(f.users).Execute(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.Email, got.Email)

	_, err = NewMeUseCase(f.users).Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
