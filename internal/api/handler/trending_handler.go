package handler

import (
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

type TrendingHandler struct {
	trendingSvc service.TrendingService
}

func NewTrendingHandler(trendingSvc service.TrendingService) *TrendingHandler {
	return &TrendingHandler{
		trendingSvc: trendingSvc,
	}
}

// GetTrending 当日热度榜
func (s *TrendingHandler) GetTrending(c *gin.Context) {
	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	list, err := s.trendingSvc.GetTrendingArticles(c.Request.Context(), query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
