package kafka

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	likesConsumer sarama.ConsumerGroup
	likesHandler  sarama.ConsumerGroupHandler

	commentsConsumer sarama.ConsumerGroup
	commentsHandler  sarama.ConsumerGroupHandler

	viewsConsumer sarama.ConsumerGroup
	viewsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	articleRepo repository.ArticleRepo,
	notifyRepo mongo.NotificationRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	likesConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaLikeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	likesHandler := NewLikesHandler(articleRepo, notifyRepo)

	commentsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	commentsHandler := NewCommentsHandler(articleRepo, notifyRepo)

	viewsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaViewConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	viewsHandler := NewViewsHandler()

	return &ConsumerManager{
		likesConsumer:    likesConsumer,
		likesHandler:     likesHandler,
		commentsConsumer: commentsConsumer,
		commentsHandler:  commentsHandler,
		viewsConsumer:    viewsConsumer,
		viewsHandler:     viewsHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Like Consumer
	go func() {
		topic := cfg.KafkaLikeConsumer.Topic
		log.Info("Like consumer started", "topic", topic)
		for {
			if err := m.likesConsumer.Consume(ctx, []string{topic}, m.likesHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Comment Consumer
	go func() {
		topic := cfg.KafkaCommentConsumer.Topic
		log.Info("Comment consumer started", "topic", topic)
		for {
			if err := m.commentsConsumer.Consume(ctx, []string{topic}, m.commentsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 View Consumer
	go func() {
		topic := cfg.KafkaViewConsumer.Topic
		log.Info("View consumer started", "topic", topic)
		for {
			if err := m.viewsConsumer.Consume(ctx, []string{topic}, m.viewsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.likesConsumer.Close(); err != nil {
		log.Error("Failed to close like consumer", "err", err)
	}
	if err := m.commentsConsumer.Close(); err != nil {
		log.Error("Failed to close comment consumer", "err", err)
	}
	if err := m.viewsConsumer.Close(); err != nil {
		log.Error("Failed to close view consumer", "err", err)
	}

	return nil
}
