package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-api/internal/domain/genre"
	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// genreRepository 分类仓储实现(MySQL)
// GenreModel带gorm.DeletedAt,普通查询自动追加 deleted_at IS NULL
type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(db *gorm.DB) genre.Repository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *genre.Genre) error {
	if err := getDB(ctx, r.db).Create(toGenreModel(g)).Error; err != nil {
		if isDuplicateError(err) {
			return genre.ErrGenreDuplicate
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id string) (*genre.Genre, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (*genre.Genre, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []string, excludeDeleted bool) ([]*genre.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := getDB(ctx, r.db)
	if !excludeDeleted {
		db = db.Unscoped()
	}

	var models []GenreModel
	if err := db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	genres := make([]*genre.Genre, 0, len(models))
	for i := range models {
		genres = append(genres, toGenreEntity(&models[i]))
	}
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, g *genre.Genre) error {
	result := getDB(ctx, r.db).Model(&GenreModel{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"name":       g.Name,
			"updated_at": g.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新分类失败")
	}
	if result.RowsAffected == 0 {
		return genre.ErrGenreNotFound
	}
	return nil
}

func (r *genreRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&GenreModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除分类失败")
	}
	if result.RowsAffected == 0 {
		return genre.ErrGenreNotFound
	}
	return nil
}

func (r *genreRepository) List(ctx context.Context, params genre.ListParams) ([]*genre.Genre, int64, error) {
	db := getDB(ctx, r.db).Model(&GenreModel{})
	if params.Search != "" {
		db = db.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类总数失败")
	}

	if params.OrderByName != "" {
		db = db.Order("name " + orderDirection(params.OrderByName))
	} else {
		db = db.Order("created_at DESC")
	}

	p := params.Page.Normalize()
	var models []GenreModel
	if err := db.Offset(p.Offset()).Limit(p.Limit).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询分类列表失败")
	}

	genres := make([]*genre.Genre, 0, len(models))
	for i := range models {
		genres = append(genres, toGenreEntity(&models[i]))
	}
	return genres, total, nil
}

func (r *genreRepository) first(ctx context.Context, query string, args ...interface{}) (*genre.Genre, error) {
	var model GenreModel
	if err := getDB(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return toGenreEntity(&model), nil
}

func toGenreModel(g *genre.Genre) *GenreModel {
	return &GenreModel{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
		DeletedAt: fromDeletedAt(g.DeletedAt),
	}
}

func toGenreEntity(model *GenreModel) *genre.Genre {
	return &genre.Genre{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		DeletedAt: toDeletedAt(model.DeletedAt),
	}
}
