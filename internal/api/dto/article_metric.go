package dto

// ArticleMetricDTO 文章指标趋势点
type ArticleMetricDTO struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// ArticleTrendDTO 文章趋势返回包装
type ArticleTrendDTO struct {
	ArticleID uint64              `json:"article_id"`
	Days      int                 `json:"days"` // 7 或 30
	Views     []*ArticleMetricDTO `json:"views"`
	Likes     []*ArticleMetricDTO `json:"likes"`
	Comments  []*ArticleMetricDTO `json:"comments"`
	Shares    []*ArticleMetricDTO `json:"shares"`
}
