package model

import (
	"time"
)

type Comment struct {
	ID         uint64    `gorm:"primaryKey"`
	ArticleID  uint64    `gorm:"not null;index:idx_article_id" json:"articleId"`
	UserID     uint64    `gorm:"not null" json:"userId"`
	ParentID   uint64    `gorm:"not null;default:0;index:idx_parent_id" json:"parentId"` // 0表示这是顶级评论
	Content    string    `gorm:"type:varchar(1000);not null" json:"content"`
	IsApproved bool      `gorm:"type:tinyint(1);not null;default:0" json:"isApproved"`
	IsDeleted  bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}
