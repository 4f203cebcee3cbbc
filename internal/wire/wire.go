package wire

import (
	"Inkwell/internal/api"
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/handler"
	"Inkwell/internal/job"
	"Inkwell/internal/pkg/cron"
	"Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/kafka"
	pkgMongo "Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/webhook"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronManager  *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	actionRepo := repository.NewArticleActionRepo(db)
	metricRepo := repository.NewArticleMetricRepo(db)
	trendingRepo := repository.NewTrendingRepo(db)

	articleESRepo := es.NewArticleRepo(es.Client)
	notifyRepo := pkgMongo.NewNotificationRepo(mongoDB)
	notifier := webhook.NewPublishNotifier(cfg.Webhook)

	userService := service.NewUserService(userRepo, roleRepo, articleESRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	articleService := service.NewArticleService(articleRepo, categoryRepo, articleESRepo, notifyRepo, notifier)
	actionService := service.NewArticleActionService(actionRepo, articleRepo, userRepo)
	metricService := service.NewArticleMetricService(metricRepo, articleRepo)
	trendingService := service.NewTrendingService(trendingRepo)
	notifyService := service.NewNotificationService(notifyRepo, userRepo)

	handlers := &api.HandlersGroup{
		UserHandler:          handler.NewUserHandler(userService),
		ArticleHandler:       handler.NewArticleHandler(articleService, actionService),
		ArticleActionHandler: handler.NewArticleActionHandler(actionService),
		ArticleMetricHandler: handler.NewArticleMetricHandler(metricService),
		TrendingHandler:      handler.NewTrendingHandler(trendingService),
		CategoryHandler:      handler.NewCategoryHandler(categoryService),
		NotificationHandler:  handler.NewNotificationHandler(notifyService),
		MediaHandler:         handler.NewMediaHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, articleRepo, notifyRepo)
	if err != nil {
		return nil, err
	}

	metricJob := job.NewArticleMetricsJob(articleService, actionService, metricService)
	cronMgr := cron.NewCronManager(metricJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronManager:  cronMgr,
	}, nil
}
