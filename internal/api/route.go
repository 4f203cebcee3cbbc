package api

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.GET("/profile/:username", group.UserHandler.GetPublicProfile)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateProfile)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.PUT("/avatar", group.UserHandler.UpdateAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles("ADMIN"))
			{
				adminGroup.POST("/:user_id/ban", group.UserHandler.BanUser)
				adminGroup.POST("/:user_id/unban", group.UserHandler.UnBanUser)
				adminGroup.POST("/:user_id/role", group.UserHandler.GrantRole)
			}
		}

		articleGroup := apiGroup.Group("/articles")
		{
			authOptGroup := articleGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.ArticleHandler.ListPublished)
				authOptGroup.GET("/search", group.ArticleHandler.SearchArticles)
				authOptGroup.GET("/trending", group.TrendingHandler.GetTrending)
				authOptGroup.GET("/featured", group.ArticleHandler.ListFeatured)
				authOptGroup.GET("/detail/:slug", group.ArticleHandler.GetArticleBySlug)
				authOptGroup.POST("/:article_id/share", group.ArticleMetricHandler.TrackShare)
				authOptGroup.GET("/:article_id/comments", group.ArticleActionHandler.GetComments)
			}

			authGroup := articleGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ArticleHandler.CreateArticle)
				authGroup.PUT("/:article_id", group.ArticleHandler.UpdateArticle)
				authGroup.DELETE("/:article_id", group.ArticleHandler.DeleteArticle)
				authGroup.POST("/:article_id/submit", group.ArticleHandler.SubmitArticle)
				authGroup.POST("/:article_id/hide", group.ArticleHandler.HideArticle)
				authGroup.POST("/:article_id/unhide", group.ArticleHandler.UnhideArticle)
				authGroup.GET("/self", group.ArticleHandler.ListMine)

				authGroup.POST("/:article_id/like", group.ArticleActionHandler.LikeArticle)
				authGroup.DELETE("/:article_id/like", group.ArticleActionHandler.CancelLikeArticle)
				authGroup.POST("/comments", group.ArticleActionHandler.CreateComment)
				authGroup.DELETE("/comments/:comment_id", group.ArticleActionHandler.DeleteComment)
			}

			// 审核相关，仅管理员
			auditGroup := authGroup.Group("/audit")
			auditGroup.Use(middleware.CheckRoles("ADMIN"))
			{
				auditGroup.GET("/list", group.ArticleHandler.ListPending)
				auditGroup.POST("/:article_id/approve", group.ArticleHandler.ApproveArticle)
				auditGroup.POST("/:article_id/reject", group.ArticleHandler.RejectArticle)
				auditGroup.GET("/comments", group.ArticleActionHandler.GetPendingComments)
				auditGroup.POST("/comments/:comment_id/approve", group.ArticleActionHandler.ApproveComment)
			}
		}

		metricsGroup := apiGroup.Group("/metrics")
		{
			metricsGroup.Use(middleware.AuthMiddleware())
			{
				metricsGroup.GET("/article/7d/:article_id", group.ArticleMetricHandler.GetMetricsBy7Days)
				metricsGroup.GET("/article/30d/:article_id", group.ArticleMetricHandler.GetMetricsBy30Days)
			}
		}

		categoryGroup := apiGroup.Group("/categories")
		{
			categoryGroup.GET("", group.CategoryHandler.GetCategories)
			categoryGroup.GET("/:slug", group.CategoryHandler.GetCategoryBySlug)

			adminGroup := categoryGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles("ADMIN"))
			{
				adminGroup.POST("", group.CategoryHandler.CreateCategory)
				adminGroup.PUT("/:category_id", group.CategoryHandler.UpdateCategory)
				adminGroup.DELETE("/:category_id", group.CategoryHandler.DeleteCategory)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		notifyGroup.Use(middleware.AuthMiddleware())
		{
			notifyGroup.GET("/list", group.NotificationHandler.GetNotificationList)
			notifyGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notifyGroup.POST("/read", group.NotificationHandler.MarkRead)
			notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
