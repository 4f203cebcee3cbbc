package model

import (
	"time"
)

type Article struct {
	ID            uint64     `gorm:"primaryKey"`
	AuthorID      uint64     `gorm:"not null;index:idx_author_id" json:"author_id"`
	CategoryID    uint64     `gorm:"not null;index:idx_category_id" json:"category_id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_slug" json:"slug"`
	Content       string     `gorm:"type:mediumtext;not null" json:"content"`
	Excerpt       string     `gorm:"type:varchar(500)" json:"excerpt"`
	FeaturedImage string     `gorm:"type:varchar(512);column:featured_image" json:"featured_image"`
	Tags          []string   `gorm:"type:json;serializer:json" json:"tags"`
	Status        int8       `gorm:"not null;default:0;index:idx_status" json:"status"` // 0:草稿, 1:待审核, 2:已发布, 3:已拒绝
	IsFeatured    bool       `gorm:"type:tinyint(1);not null;default:0" json:"is_featured"`
	IsHidden      bool       `gorm:"type:tinyint(1);not null;default:0" json:"is_hidden"`
	LikesCount    int        `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int        `gorm:"not null;default:0" json:"comments_count"`
	ViewsCount    int        `gorm:"not null;default:0" json:"views_count"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// 关联关系
	Author   User     `gorm:"foreignKey:AuthorID;references:ID"`
	Category Category `gorm:"foreignKey:CategoryID;references:ID"`
}

func (Article) TableName() string {
	return "articles"
}
