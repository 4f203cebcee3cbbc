package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"time"

	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type NotificationService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.NotificationListDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type NotificationServiceImpl struct {
	notifyRepo mongo.NotificationRepo
	userRepo   repository.UserRepo
}

func NewNotificationService(notifyRepo mongo.NotificationRepo, userRepo repository.UserRepo) NotificationService {
	return &NotificationServiceImpl{
		notifyRepo: notifyRepo,
		userRepo:   userRepo,
	}
}

// GetNotificationList 分页获取通知列表并补全发送者信息
func (s *NotificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) (*dto.NotificationListDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.notifyRepo.GetNotificationList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, m := range list {
		d := &dto.NotificationDTO{
			ID:        m.ID.Hex(),
			SenderID:  m.SenderID,
			Type:      m.Type,
			TargetID:  m.TargetID,
			Content:   m.Content,
			Payload:   m.Payload,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}

		// SenderID 为 0 代表系统发送
		if m.SenderID > 0 {
			profile, err := s.userRepo.GetProfileById(ctx, m.SenderID)
			if err == nil && profile != nil {
				d.SenderName = profile.DisplayName
				d.SenderAvatar = minio.GetPublicURL(profile.AvatarURL)
			}
		} else {
			d.SenderName = "系统通知"
		}

		res = append(res, d)
	}

	unread, err := s.notifyRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.NotificationListDTO{List: res, UnreadCount: unread}, nil
}

// GetUnreadCount 获取未读数
func (s *NotificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.notifyRepo.GetUnreadCount(ctx, userID)
}

// MarkRead 标记单条已读, 仅接收者本人可操作
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	err := s.notifyRepo.MarkAsRead(ctx, userID, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		if errors.Is(err, mongoDB.ErrInvalidIndexValue) {
			return ErrParamInvalid
		}
		return err
	}
	return nil
}

// MarkAllRead 一键已读
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.notifyRepo.MarkAllAsRead(ctx, userID)
}
