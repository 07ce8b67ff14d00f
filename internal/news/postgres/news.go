package postgres

import (
	"errors"

	"github.com/minhvt/corporate-portal/internal"
	newsDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/news"
	"github.com/minhvt/corporate-portal/internal/news"
	"gorm.io/gorm"
)

// Repository implements the news.Repository interface using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) news.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAll(publishedOnly bool, limit, offset int) ([]*newsDatamodel.Article, error) {
	var articles []*newsDatamodel.Article
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&articles).Error
	return articles, err
}

func (r *Repository) GetByID(id int64) (*newsDatamodel.Article, error) {
	var a newsDatamodel.Article
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrArticleNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetBySlug(s string) (*newsDatamodel.Article, error) {
	var a newsDatamodel.Article
	err := r.db.Where("slug = ?", s).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrArticleNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) SlugExists(s string) (bool, error) {
	var count int64
	err := r.db.Model(&newsDatamodel.Article{}).Where("slug = ?", s).Count(&count).Error
	return count > 0, err
}

func (r *Repository) Create(a *newsDatamodel.Article) error {
	if err := r.db.Create(a).Error; err != nil {
		// Lost race on the slug unique index; the service retries with a
		// disambiguated slug or surfaces the conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("Article slug already exists", internal.ErrCodeDuplicateSlug)
		}
		return err
	}
	return nil
}

func (r *Repository) Update(a *newsDatamodel.Article) error {
	return r.db.Save(a).Error
}
