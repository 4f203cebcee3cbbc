package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型
const (
	NotifyTypeArticleLiked     int8 = 1
	NotifyTypeArticleCommented int8 = 2
	NotifyTypeArticleApproved  int8 = 3
	NotifyTypeArticleRejected  int8 = 4
	NotifyTypeCommentApproved  int8 = 5
)

// NotificationModel 站内通知模型
type NotificationModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 消息接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统通知为0)
	Type       int8               `bson:"type" json:"type"`
	TargetID   uint64             `bson:"target_id" json:"targetId"`   // 关联的文章或评论ID
	Content    string             `bson:"content" json:"content"`      // 通知文案预览
	Payload    map[string]any     `bson:"payload" json:"payload"`      // 额外元数据 (如文章标题快照)
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
