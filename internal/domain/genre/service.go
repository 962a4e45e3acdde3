package genre

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// Service 分类领域服务接口
type Service interface {
	// Create 创建分类
	// 业务规则:名称非空、不超过100个字符、不能与未删除的分类重名
	Create(ctx context.Context, name string) (*Genre, error)

	// Get 获取分类详情
	Get(ctx context.Context, id string) (*Genre, error)

	// Rename 修改分类名称(规则同Create)
	Rename(ctx context.Context, id, name string) (*Genre, error)

	// Delete 软删除分类
	Delete(ctx context.Context, id string) error

	// List 分页查询分类
	List(ctx context.Context, params ListParams) ([]*Genre, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name string) (*Genre, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}

	g := NewGenre(name)
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) Get(ctx context.Context, id string) (*Genre, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Rename(ctx context.Context, id, name string) (*Genre, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	g.Rename(name)
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Genre, int64, error) {
	params.Page = params.Page.Normalize()
	return s.repo.List(ctx, params)
}

// ensureUniqueName 检查名称是否被其他未删除的分类占用(selfID为当前分类,重命名时排除自己)
func (s *service) ensureUniqueName(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	switch {
	case err == nil && existing.ID != selfID:
		return ErrGenreDuplicate
	case err != nil && !errors.Is(err, ErrGenreNotFound):
		return err
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.Validation(apperrors.FieldError{Msg: "名称不能为空", Path: "name"})
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return apperrors.Validation(apperrors.FieldError{Msg: "名称不能超过100个字符", Path: "name"})
	}
	return nil
}
