package news

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/minhvt/corporate-portal/internal/core/common/slug"
	newsDatamodel "github.com/minhvt/corporate-portal/internal/core/datamodel/news"
)

type Repository interface {
	GetAll(publishedOnly bool, limit, offset int) ([]*newsDatamodel.Article, error)
	GetByID(id int64) (*newsDatamodel.Article, error)
	GetBySlug(s string) (*newsDatamodel.Article, error)
	SlugExists(s string) (bool, error)
	Create(a *newsDatamodel.Article) error
	Update(a *newsDatamodel.Article) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(publishedOnly bool, limit, offset int) ([]*Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.GetAll(publishedOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	articles := make([]*Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, FromDataModel(row))
	}
	return articles, nil
}

func (s *Service) GetBySlug(slugValue string) (*Article, error) {
	row, err := s.repo.GetBySlug(slugValue)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Create mints the article slug from its title. When the slug collides with
// an existing article the row is created first and re-saved with a numeric
// `-{id}` suffix, so the disambiguator is stable across retitles.
func (s *Service) Create(dto CreateArticleDTO, authorID *int64) (*Article, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	row := &newsDatamodel.Article{
		Title:     dto.Title,
		Slug:      slug.Normalize(dto.Title),
		Summary:   dto.Summary,
		Content:   dto.Content,
		Published: dto.Published,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if row.Slug == "" {
		row.Slug = fmt.Sprintf("article-%d", now.Unix())
	}
	if dto.Published {
		row.PublishedAt = &now
	}

	taken, err := s.repo.SlugExists(row.Slug)
	if err != nil {
		return nil, err
	}

	if !taken {
		if err := s.repo.Create(row); err != nil {
			return nil, err
		}
		return FromDataModel(row), nil
	}

	baseSlug := row.Slug
	row.Slug = fmt.Sprintf("%s-%d", baseSlug, now.UnixNano())
	if err := s.repo.Create(row); err != nil {
		return nil, err
	}

	row.Slug = fmt.Sprintf("%s-%d", baseSlug, row.ID)
	if err := s.repo.Update(row); err != nil {
		return nil, err
	}

	s.logger.Info("slug collision resolved", "base", baseSlug, "slug", row.Slug)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdateArticleDTO) (*Article, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil && *dto.Title != row.Title {
		row.Title = *dto.Title
		newSlug := slug.Normalize(*dto.Title)
		if newSlug != "" && newSlug != row.Slug {
			taken, err := s.repo.SlugExists(newSlug)
			if err != nil {
				return nil, err
			}
			if taken {
				newSlug = fmt.Sprintf("%s-%d", newSlug, row.ID)
			}
			row.Slug = newSlug
		}
	}
	if dto.Summary != nil {
		row.Summary = *dto.Summary
	}
	if dto.Content != nil {
		row.Content = *dto.Content
	}
	if dto.Published != nil && *dto.Published != row.Published {
		row.Published = *dto.Published
		if *dto.Published {
			now := time.Now()
			row.PublishedAt = &now
		} else {
			row.PublishedAt = nil
		}
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}
