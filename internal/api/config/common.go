package config

// Config 配置主体
type Config struct {
	Server               Server               `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Mongo                MongoConfig          `mapstructure:"mongo"`
	MinIO                MinIOConfig          `mapstructure:"minio"`
	Elastic              ElasticConfig        `mapstructure:"elastic"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	Webhook              WebhookConfig        `mapstructure:"webhook"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaLikeConsumer    KafkaConsumerBinding `mapstructure:"kafka_like_consumer"`
	KafkaCommentConsumer KafkaConsumerBinding `mapstructure:"kafka_comment_consumer"`
	KafkaViewConsumer    KafkaConsumerBinding `mapstructure:"kafka_view_consumer"`
}

// Server Server配置
type Server struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	ArticleIndex string `mapstructure:"article_index"`
}

// LogstashConfig 远程日志配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// WebhookConfig 发布回调配置，URL 为空时不触发
type WebhookConfig struct {
	PublishURL string `mapstructure:"publish_url"`
	Timeout    int    `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaConsumerBinding 消费者与主题绑定
type KafkaConsumerBinding struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
