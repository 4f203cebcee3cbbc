package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	ArticleID uint64 `json:"article_id" binding:"required"`
	Content   string `json:"content" binding:"required,max=1000"`
	ParentID  uint64 `json:"parent_id"` // 0 表示顶级评论
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID          uint64 `json:"id"`
	ArticleID   uint64 `json:"article_id"`
	UserID      uint64 `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Content     string `json:"content"`
	ParentID    uint64 `json:"parent_id"`
	IsApproved  bool   `json:"is_approved"`
	CreatedAt   string `json:"created_at"`

	Replies    []*CommentDTO `json:"replies,omitempty"`
	ReplyCount int64         `json:"reply_count"`
}
