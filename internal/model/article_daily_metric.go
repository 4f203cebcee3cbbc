package model

import (
	"time"
)

type ArticleDailyMetric struct {
	ID         uint64    `gorm:"primaryKey"`
	ArticleID  uint64    `gorm:"not null;index:idx_article_date,unique" json:"articleId"`
	MetricDate time.Time `gorm:"not null;index:idx_article_date,unique;column:metric_date" json:"metricDate"`
	Views      int       `gorm:"not null;default:0" json:"views"`
	Likes      int       `gorm:"not null;default:0" json:"likes"`
	Comments   int       `gorm:"not null;default:0" json:"comments"`
	Shares     int       `gorm:"not null;default:0" json:"shares"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (ArticleDailyMetric) TableName() string {
	return "article_daily_metrics"
}
