package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifySvc service.NotificationService
}

func NewNotificationHandler(notifySvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifySvc: notifySvc,
	}
}

func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.PageQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.notifySvc.GetNotificationList(c.Request.Context(), userID, query.Page, query.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	count, err := s.notifySvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{
		"unread_count": count,
	})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	var req struct {
		MsgID string `json:"msg_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	err := s.notifySvc.MarkRead(c.Request.Context(), userID, req.MsgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	err := s.notifySvc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
