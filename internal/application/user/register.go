// Package user 认证相关用例:注册、登录、登出、刷新Token、当前用户
package user

import (
	"context"

	"github.com/xiebiao/bookstore-api/internal/domain/user"
)

// RegisterUseCase 用户注册用例
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// Execute 执行注册,返回的用户信息不含密码
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// MeUseCase 查询当前登录用户
type MeUseCase struct {
	users user.Repository
}

// NewMeUseCase 创建用例
func NewMeUseCase(users user.Repository) *MeUseCase {
	return &MeUseCase{users: users}
}

// Execute 按Token中的UserID查询
func (uc *MeUseCase) Execute(ctx context.Context, userID string) (*UserInfo, error) {
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}
