package dto

// TrendingArticleDTO 热度榜条目
type TrendingArticleDTO struct {
	Rank            int    `json:"rank"`
	ArticleID       uint64 `json:"article_id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	FeaturedImage   string `json:"featured_image"`
	AuthorName      string `json:"author_name"`
	AuthorUsername  string `json:"author_username"`
	CategoryName    string `json:"category_name"`
	LikesCount      int64  `json:"likes_count"`
	CommentsCount   int64  `json:"comments_count"`
	TotalEngagement int64  `json:"total_engagement"`
	ViewsToday      int64  `json:"views_today"`
	Badge           string `json:"badge"`
	PublishedAt     string `json:"published_at,omitempty"`
}

// TrendingListDTO 热度榜返回包装
type TrendingListDTO struct {
	GeneratedAt string                `json:"generated_at"`
	List        []*TrendingArticleDTO `json:"list"`
}
