package dto

// CategoryCreateDTO 创建/更新分类请求
type CategoryCreateDTO struct {
	Name        string  `json:"name" binding:"required" validate:"min=1,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// CategoryDTO 分类
type CategoryDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	ArticleCount int64   `json:"article_count"`
}
