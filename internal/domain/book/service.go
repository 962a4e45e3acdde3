package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务规则(图书必须属于一个存在的分类)
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// Create 上架图书
	// 业务规则:
	// - 价格>0,库存>=0,出版年份在1450到今年之间,品相为空或属于Conditions
	// - 分类必须存在且未删除
	// - (书名,作者,出版社)与未删除的图书重复时返回ErrBookDuplicate
	// - 与已软删除的图书重复时恢复该图书并覆盖属性,restored=true
	Create(ctx context.Context, d Details) (book *Book, restored bool, err error)

	// Get 获取图书详情
	Get(ctx context.Context, id string) (*Book, error)

	// Update 部分更新图书
	// 业务规则:修改书名时不能与其他图书重名;修改分类时分类必须存在;
	// 修改库存期间有交易扣减库存时返回ErrStockConflict
	Update(ctx context.Context, id string, p Patch) (*Book, error)

	// Delete 软删除图书
	Delete(ctx context.Context, id string) error

	// List 分页查询图书
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListByGenre 分页查询某分类下的图书,分类不存在时返回genre.ErrGenreNotFound
	ListByGenre(ctx context.Context, genreID string, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo   Repository
	genres genre.Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository, genres genre.Repository) Service {
	return &service{repo: repo, genres: genres}
}

func (s *service) Create(ctx context.Context, d Details) (*Book, bool, error) {
	// 1. 参数校验
	d = normalize(d)
	if fields := validateDetails(d); len(fields) > 0 {
		return nil, false, apperrors.Validation(fields...)
	}

	// 2. 分类必须存在
	if _, err := s.genres.FindByID(ctx, d.GenreID); err != nil {
		return nil, false, err
	}

	// 3. 重复检查(包含已软删除的图书)
	existing, err := s.repo.FindDuplicate(ctx, d.Title, d.Writer, d.Publisher)
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return nil, false, err
	}
	if existing != nil {
		if !existing.IsDeleted() {
			return nil, false, ErrBookDuplicate
		}
		existing.Restore(d)
		if err := s.repo.Restore(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	// 4. 创建并持久化
	b := NewBook(d)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, false, err
	}
	return b, false, nil
}

func (s *service) Get(ctx context.Context, id string) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, p Patch) (*Book, error) {
	if fields := validatePatch(p); len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil && *p.Title != b.Title {
		other, err := s.repo.FindByTitle(ctx, *p.Title)
		if err == nil && other.ID != b.ID {
			return nil, ErrTitleDuplicate
		}
		if err != nil && !errors.Is(err, ErrBookNotFound) {
			return nil, err
		}
	}
	if p.GenreID != nil && *p.GenreID != b.GenreID {
		if _, err := s.genres.FindByID(ctx, *p.GenreID); err != nil {
			return nil, err
		}
	}

	// 只写入请求中出现的字段,库存和删除标记不会被这次读取的旧值覆盖
	if err := s.repo.Patch(ctx, id, p, b.StockQuantity); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Page = params.Page.Normalize()
	return s.repo.List(ctx, params)
}

func (s *service) ListByGenre(ctx context.Context, genreID string, params ListParams) ([]*Book, int64, error) {
	if _, err := s.genres.FindByID(ctx, genreID); err != nil {
		return nil, 0, err
	}
	params.GenreID = genreID
	return s.List(ctx, params)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

func normalize(d Details) Details {
	d.Title = strings.TrimSpace(d.Title)
	d.Writer = strings.TrimSpace(d.Writer)
	d.Publisher = strings.TrimSpace(d.Publisher)
	d.GenreID = strings.TrimSpace(d.GenreID)
	return d
}

func validateDetails(d Details) []apperrors.FieldError {
	var fields []apperrors.FieldError
	required := []struct{ value, path string }{
		{d.Title, "title"},
		{d.Writer, "writer"},
		{d.Publisher, "publisher"},
		{d.GenreID, "genreId"},
	}
	for _, r := range required {
		if r.value == "" {
			fields = append(fields, apperrors.FieldError{Msg: r.path + "不能为空", Path: r.path})
		}
	}
	if d.Price <= 0 {
		fields = append(fields, apperrors.FieldError{Msg: "价格必须大于0", Path: "price"})
	}
	if d.StockQuantity < 0 {
		fields = append(fields, apperrors.FieldError{Msg: "库存不能为负数", Path: "stockQuantity"})
	}
	if f, ok := checkPublicationYear(d.PublicationYear); !ok {
		fields = append(fields, f)
	}
	if d.Condition != "" && !validCondition(d.Condition) {
		fields = append(fields, conditionError())
	}
	return fields
}

func validatePatch(p Patch) []apperrors.FieldError {
	var fields []apperrors.FieldError
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		fields = append(fields, apperrors.FieldError{Msg: "title不能为空", Path: "title"})
	}
	if p.Price != nil && *p.Price <= 0 {
		fields = append(fields, apperrors.FieldError{Msg: "价格必须大于0", Path: "price"})
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		fields = append(fields, apperrors.FieldError{Msg: "库存不能为负数", Path: "stockQuantity"})
	}
	if p.PublicationYear != nil {
		if f, ok := checkPublicationYear(*p.PublicationYear); !ok {
			fields = append(fields, f)
		}
	}
	if p.Condition != nil && *p.Condition != "" && !validCondition(*p.Condition) {
		fields = append(fields, conditionError())
	}
	return fields
}

func checkPublicationYear(year int) (apperrors.FieldError, bool) {
	current := time.Now().Year()
	if year < MinPublicationYear || year > current {
		return apperrors.FieldError{
			Msg:  fmt.Sprintf("出版年份必须在%d到%d之间", MinPublicationYear, current),
			Path: "publicationYear",
		}, false
	}
	return apperrors.FieldError{}, true
}

func validCondition(c string) bool {
	for _, v := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}

func conditionError() apperrors.FieldError {
	return apperrors.FieldError{
		Msg:  "品相只能是 " + strings.Join(Conditions, ", ") + " 之一",
		Path: "condition",
	}
}
