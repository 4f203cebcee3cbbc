package dto

// NotificationDTO 站内通知
type NotificationDTO struct {
	ID           string         `json:"id"`
	SenderID     uint64         `json:"sender_id"`
	SenderName   string         `json:"sender_name"`
	SenderAvatar string         `json:"sender_avatar,omitempty"`
	Type         int8           `json:"type"`
	TargetID     uint64         `json:"target_id"`
	Content      string         `json:"content"`
	Payload      map[string]any `json:"payload,omitempty"`
	IsRead       bool           `json:"is_read"`
	CreatedAt    string         `json:"created_at"`
}

// NotificationListDTO 通知列表返回包装
type NotificationListDTO struct {
	List        []*NotificationDTO `json:"list"`
	UnreadCount int64              `json:"unread_count"`
}
