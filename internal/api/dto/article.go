package dto

// ArticleCreateDTO 创建文章请求，新文章始终落为草稿
type ArticleCreateDTO struct {
	Title         string   `json:"title" binding:"required" validate:"min=1,max=255"`
	Content       string   `json:"content" binding:"required"`
	CategoryID    uint64   `json:"category_id" binding:"required"`
	Tags          []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	Excerpt       *string  `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	FeaturedImage *string  `json:"featured_image,omitempty"`
}

// ArticleUpdateDTO 更新文章请求，空字段不变更
type ArticleUpdateDTO struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content       *string  `json:"content,omitempty"`
	CategoryID    *uint64  `json:"category_id,omitempty"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
	Excerpt       *string  `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	FeaturedImage *string  `json:"featured_image,omitempty"`
}

// ArticleRejectDTO 审核驳回请求
type ArticleRejectDTO struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ArticleDTO 文章详情
type ArticleDTO struct {
	ID            uint64   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Content       string   `json:"content,omitempty"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	IsFeatured    bool     `json:"is_featured"`
	IsHidden      bool     `json:"is_hidden"`

	AuthorID   uint64 `json:"author_id"`
	AuthorName string `json:"author_name"`
	AvatarURL  string `json:"avatar_url,omitempty"`

	CategoryID   uint64 `json:"category_id"`
	CategoryName string `json:"category_name"`

	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	ViewsCount    int64 `json:"views_count"`
	IsLiked       bool  `json:"is_liked"`

	SubmittedAt string `json:"submitted_at,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ArticleListDTO 文章列表返回包装
type ArticleListDTO struct {
	List  []*ArticleDTO `json:"list"`
	Total int64         `json:"total"`
}

// ArticleSearchDTO 搜索结果条目，来自 ES
type ArticleSearchDTO struct {
	ID           uint64   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Excerpt      string   `json:"excerpt"`
	Tags         []string `json:"tags"`
	AuthorName   string   `json:"author_name"`
	CategoryName string   `json:"category_name"`
	PublishedAt  string   `json:"published_at,omitempty"`
}
