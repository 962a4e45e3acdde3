package user

import (
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/user"
)

// =========================================
// 应用层DTO
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// UserInfo 用户信息,不包含密码
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"` // Access Token有效期(秒)
}

// RefreshResponse 刷新Token响应
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
