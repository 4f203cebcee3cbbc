package handler

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 上传图片素材，用于头像与文章题图
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	// 只接受嗅探结果为图片的文件
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	log.InfoContext(c.Request.Context(), "media upload success", "fileKey", fileKey, "type", contentType)
	response.Success(c, map[string]interface{}{
		"url":      fileKey,
		"mime":     contentType,
		"size":     file.Size,
		"original": file.Filename,
	})
}
