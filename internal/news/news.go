package news

import (
	"time"

	errors "github.com/minhvt/corporate-portal/internal"
	newsDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/news"
	"github.com/minhvt/corporate-portal/internal/core/common/validation"
)

type Article struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    *int64     `json:"author_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromDataModel(a *newsDatamodel.Article) *Article {
	return &Article{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Content:     a.Content,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ToDataModel(a *Article) *newsDatamodel.Article {
	return &newsDatamodel.Article{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Content:     a.Content,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// CreateArticleDTO is the transport shape for creating an article.
type CreateArticleDTO struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

func (d CreateArticleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("content", d.Content).Required()
	return v.Validate()
}

// UpdateArticleDTO is the transport shape for updating an article.
type UpdateArticleDTO struct {
	Title     *string `json:"title,omitempty"`
	Summary   *string `json:"summary,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

func (d UpdateArticleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MaxLength(255)
	}
	if d.Content != nil {
		v.Field("content", *d.Content).Required()
	}
	return v.Validate()
}
