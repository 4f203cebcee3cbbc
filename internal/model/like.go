package model

import (
	"time"
)

type Like struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	ArticleID uint64    `gorm:"primaryKey;index:idx_article_id" json:"articleId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
