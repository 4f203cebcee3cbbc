package model

import (
	"time"
)

type ArticleView struct {
	ID        uint64    `gorm:"primaryKey"`
	ArticleID uint64    `gorm:"not null;index:idx_article_id" json:"articleId"`
	UserID    uint64    `gorm:"not null" json:"userId"` // 0表示匿名访客
	ViewedAt  time.Time `gorm:"not null;index:idx_viewed_at;default:CURRENT_TIMESTAMP" json:"viewedAt"`
}

func (ArticleView) TableName() string {
	return "article_views"
}
