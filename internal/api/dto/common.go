package dto

// PageQueryDTO 通用分页查询参数
type PageQueryDTO struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

// ArticleListQueryDTO 文章列表查询参数
type ArticleListQueryDTO struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Category string `form:"category"` // 分类 slug
	Tag      string `form:"tag"`
	Keyword  string `form:"keyword"` // 标题模糊匹配
	Status   string `form:"status"`
}

// SearchQueryDTO 搜索查询参数，keyword 与 tag 二选一
type SearchQueryDTO struct {
	Keyword  string `form:"keyword"`
	Tag      string `form:"tag"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
