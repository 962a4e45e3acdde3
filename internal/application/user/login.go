package user

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/user"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/jwt"
)

// SessionStore 会话与Token黑名单(redis.SessionStore),未启用Redis时为nil
type SessionStore interface {
	SaveSession(ctx context.Context, userID string, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID string) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis(失败不影响登录)
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	sessions    SessionStore
	sessionTTL  time.Duration
	logger      *zap.Logger
}

// NewLoginUseCase 创建登录用例
// sessionTTL与Refresh Token有效期一致
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions SessionStore,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *LoginUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, err
	}

	if uc.sessions != nil {
		data := map[string]interface{}{
			"user_id":  u.ID,
			"email":    u.Email,
			"username": u.Username,
			"login_at": time.Now().Unix(),
		}
		if err := uc.sessions.SaveSession(ctx, u.ID, data, uc.sessionTTL); err != nil {
			uc.logger.Warn("保存会话失败", zap.String("user_id", u.ID), zap.Error(err))
		}
	}

	return &LoginResponse{
		User:         toUserInfo(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessions SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

// Execute 删除会话,并把Access Token拉黑到其自然过期
// 未启用Redis时无法吊销Token,直接返回成功
func (uc *LogoutUseCase) Execute(ctx context.Context, userID, accessToken string, remaining time.Duration) error {
	if uc.sessions == nil {
		return nil
	}
	if err := uc.sessions.DeleteSession(ctx, userID); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	if remaining <= 0 {
		return nil
	}
	if err := uc.sessions.AddToBlacklist(ctx, accessToken, remaining); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// RefreshTokenUseCase 用Refresh Token换新的Access Token
type RefreshTokenUseCase struct {
	jwtManager *jwt.Manager
	users      user.Repository
}

// NewRefreshTokenUseCase 创建用例
func NewRefreshTokenUseCase(jwtManager *jwt.Manager, users user.Repository) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{jwtManager: jwtManager, users: users}
}

// Execute 校验Refresh Token,重新读取用户信息后签发
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := uc.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	token, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Email, u.Username)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{AccessToken: token}, nil
}
