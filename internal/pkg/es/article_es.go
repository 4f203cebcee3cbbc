package es

import "time"

// ArticleES 写入 ES 的完整文档
type ArticleES struct {
	ID                uint64     `json:"id"`
	AuthorID          uint64     `json:"author_id"`
	Status            int8       `json:"status"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Excerpt           string     `json:"excerpt"`
	Content           string     `json:"content"`
	Tags              []string   `json:"tags"`
	CategoryName      string     `json:"category_name"`
	AuthorUsername    string     `json:"author_username"`
	AuthorDisplayName string     `json:"author_display_name"`
	LikesCount        int        `json:"likes_count"`
	CommentsCount     int        `json:"comments_count"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`

	Sort []interface{} `json:"-"`
}
