package api

import "Inkwell/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler          *handler.UserHandler
	ArticleHandler       *handler.ArticleHandler
	ArticleActionHandler *handler.ArticleActionHandler
	ArticleMetricHandler *handler.ArticleMetricHandler
	TrendingHandler      *handler.TrendingHandler
	CategoryHandler      *handler.CategoryHandler
	NotificationHandler  *handler.NotificationHandler
	MediaHandler         *handler.MediaHandler
}
