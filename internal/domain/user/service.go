package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Login 用户登录，邮箱不存在和密码错误统一返回ErrInvalidPassword
	Login(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
// cost为bcrypt计算成本，<=0时使用默认值12
func NewService(repo Repository, cost int) Service {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &service{repo: repo, cost: cost}
}

// DefaultBcryptCost 推荐值，平衡安全性与性能（cost每+1，耗时翻倍）
const DefaultBcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Register 用户注册
// 业务规则：
// 1. 用户名3-50个字符
// 2. 邮箱格式校验
// 3. 密码6-72位（bcrypt只处理前72字节）
// 4. 邮箱/用户名唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	var fields []apperrors.FieldError
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		fields = append(fields, apperrors.FieldError{Msg: "用户名长度应为3-50个字符", Path: "username"})
	}
	if !emailPattern.MatchString(email) {
		fields = append(fields, apperrors.FieldError{Msg: "邮箱格式不正确", Path: "email"})
	}
	if len(password) < 6 || len(password) > 72 {
		fields = append(fields, apperrors.FieldError{Msg: "密码长度应为6-72位", Path: "password"})
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	user := NewUser(username, email, string(hashedPassword))
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err // Repository已转换为业务错误
	}
	return user, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// 不区分"用户不存在"和"密码错误"，避免泄露注册信息
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(user.Password, password); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}
