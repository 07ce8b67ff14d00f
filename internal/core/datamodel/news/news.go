package news

import "time"

type Article struct {
	ID          int64      `gorm:"primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Slug        string     `gorm:"column:slug;uniqueIndex;not null"`
	Summary     string     `gorm:"column:summary"`
	Content     string     `gorm:"column:content"`
	Published   bool       `gorm:"column:published;default:false"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	AuthorID    *int64     `gorm:"column:author_id"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Article) TableName() string {
	return "news_articles"
}
