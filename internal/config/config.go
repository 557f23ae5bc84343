package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	HTTPServer
	MySQL
	Redis
	JWT
	MinIO
	Kafka
	Feed
	Log

	// StorageBackend mysql | memory
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"mysql"`
	// CacheBackend redis | memory，session 也跟着走
	CacheBackend string `env:"CACHE_BACKEND" env-default:"redis"`
}

type HTTPServer struct {
	BindAddress     string        `env:"BIND_ADDRESS" env-default:"localhost"`
	BindPort        string        `env:"BIND_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type MySQL struct {
	User    string `env:"MYSQL_USER" env-default:"root"`
	Pass    string `env:"MYSQL_PASSWORD" env-default:""`
	Host    string `env:"MYSQL_HOST" env-default:"127.0.0.1"`
	Port    string `env:"MYSQL_PORT" env-default:"3306"`
	DB      string `env:"MYSQL_DB" env-default:"yatube"`
	Migrate bool   `env:"MYSQL_AUTO_MIGRATE" env-default:"true"`
}

// DSN gorm mysql 连接串
func (m MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		m.User, m.Pass, m.Host, m.Port, m.DB)
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type JWT struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET" env-default:"secret-key"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET" env-default:"refresh-key"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" env-default:"30m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" env-default:"24h"`
}

type MinIO struct {
	Enabled bool   `env:"MINIO_ENABLED" env-default:"false"`
	User    string `env:"MINIO_USER" env-default:"minioadmin"`
	Pass    string `env:"MINIO_PASSWORD" env-default:"minioadmin"`
	Host    string `env:"MINIO_HOST" env-default:"localhost"`
	Port    string `env:"MINIO_PORT" env-default:"9000"`
	Bucket  string `env:"MINIO_BUCKET" env-default:"yatube"`
}

type Kafka struct {
	Enabled      bool          `env:"KAFKA_ENABLED" env-default:"false"`
	Brokers      []string      `env:"KAFKA_BROKERS" env-separator:"," env-default:"127.0.0.1:9092"`
	Topic        string        `env:"KAFKA_FOLLOW_TOPIC" env-default:"social.follow"`
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" env-default:"2s"`
	BatchSize    int           `env:"OUTBOX_BATCH_SIZE" env-default:"100"`
	MaxRetry     int           `env:"OUTBOX_MAX_RETRY" env-default:"5"`
}

type Feed struct {
	PageSize     int           `env:"FEED_PAGE_SIZE" env-default:"10"`
	HomeCacheTTL time.Duration `env:"HOME_CACHE_TTL" env-default:"20s"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// New 先用 env 文件覆盖环境变量（文件不存在就跳过），再读取到结构体
func New(env string) (*Config, error) {
	conf := &Config{}

	if env != "" {
		if err := godotenv.Overload(env); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("godotenv.Overload: %v", err)
		}
	}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %v", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendMySQL, BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.CacheBackend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("config: FEED_PAGE_SIZE must be positive, got %d", c.Feed.PageSize)
	}
	if c.Feed.HomeCacheTTL < 0 {
		return fmt.Errorf("config: HOME_CACHE_TTL must not be negative")
	}
	return nil
}

func (h HTTPServer) Addr() string {
	return fmt.Sprintf("%v:%v", h.BindAddress, h.BindPort)
}
