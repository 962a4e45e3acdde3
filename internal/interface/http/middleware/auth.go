package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/jwt"
	"github.com/xiebiao/bookstore-api/pkg/logger"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// Context中的键
const (
	ContextUserID   = "user_id"
	ContextEmail    = "email"
	ContextUsername = "username"
	ContextClaims   = "claims"
	ContextToken    = "token"
)

// TokenBlacklist 已登出Token查询(redis.SessionStore)
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单(未启用Redis时跳过)
// 3. 验证Token并把用户信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件,blacklist可以为nil
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
//
//	authorized := r.Group("/api/v1/books")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.Error(c, apperrors.ErrInvalidToken.WithMessage("Token格式错误"))
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
			if err != nil {
				// 黑名单不可用时放行,Token本身仍然要校验
				logger.L().Warn("check token blacklist failed",
					zap.String("request_id", c.GetString(logger.RequestIDKey)),
					zap.Error(err))
			} else if revoked {
				response.Error(c, apperrors.ErrInvalidToken.WithMessage("Token已失效,请重新登录"))
				return
			}
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired / ErrInvalidToken
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextClaims, claims)
		c.Set(ContextToken, tokenString)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 当前登录用户ID,未登录时为空字符串
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetUsername 当前登录用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// GetClaims 当前请求的Token声明
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetToken 当前请求的原始Access Token
func GetToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
