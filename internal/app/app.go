// Package app wires configuration, storage backends, services and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"yatube/internal/config"
	"yatube/internal/httpserver"
	"yatube/internal/middleware"
	"yatube/internal/pkg"
	"yatube/internal/repository/memory"
	"yatube/internal/repository/minio"
	"yatube/internal/repository/mysql"
	redisrepo "yatube/internal/repository/redis"
	"yatube/internal/router"
	"yatube/internal/service"
)

// Storage 按配置选出的存储后端
type Storage struct {
	Users    service.UserRepository
	Groups   service.GroupRepository
	Posts    service.PostRepository
	Comments service.CommentRepository
	Follows  service.FollowRepository
	Outbox   service.OutboxRepository
	Sessions service.SessionStore
	Pages    middleware.PageStore
	Images   service.ImageStore

	closers []func() error
}

func NewStorage(ctx context.Context, conf *config.Config, log *slog.Logger) (*Storage, error) {
	st := &Storage{}

	switch conf.StorageBackend {
	case config.BackendMySQL:
		db, err := mysql.InitDB(conf.MySQL.DSN(), conf.MySQL.Migrate)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		st.closers = append(st.closers, sqlDB.Close)
		st.Users = &mysql.UserRepository{DB: db}
		st.Groups = &mysql.GroupRepository{DB: db}
		st.Posts = &mysql.PostRepository{DB: db}
		st.Comments = &mysql.CommentRepository{DB: db}
		st.Follows = &mysql.FollowRepository{DB: db}
		st.Outbox = &mysql.OutboxRepository{DB: db}
	default:
		store := memory.NewStore()
		st.Users = store.Users()
		st.Groups = store.Groups()
		st.Posts = store.Posts()
		st.Comments = store.Comments()
		st.Follows = store.Follows()
		st.Outbox = store.Outbox()
	}
	log.Info("storage ready", slog.String("backend", conf.StorageBackend))

	switch conf.CacheBackend {
	case config.BackendRedis:
		cli, err := redisrepo.NewClient(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		st.closers = append(st.closers, cli.Close)
		st.Sessions = &redisrepo.SessionRepository{Client: cli}
		st.Pages = &redisrepo.PageCache{Client: cli}
	default:
		st.Sessions = memory.NewSessionStore(nil)
		st.Pages = memory.NewPageCache(nil)
	}
	log.Info("cache ready", slog.String("backend", conf.CacheBackend))

	if conf.MinIO.Enabled {
		images, err := minio.New(ctx, conf.MinIO)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		st.Images = images
		log.Info("image store ready", slog.String("bucket", conf.MinIO.Bucket))
	} else {
		st.Images = memory.NewImageStore()
	}

	return st, nil
}

// Close 逆序关闭连接
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

type Services struct {
	Feed     *service.FeedService
	Posts    *service.PostService
	Comments *service.CommentService
	Follows  *service.FollowService
	Groups   *service.GroupService
	Auth     *service.AuthService
}

func NewServices(st *Storage, conf *config.Config, log *slog.Logger) *Services {
	tokens := pkg.NewTokenIssuer(conf.JWT.AccessSecret, conf.JWT.RefreshSecret, conf.JWT.AccessTTL, conf.JWT.RefreshTTL)
	return &Services{
		Feed:     service.NewFeedService(st.Posts, st.Groups, st.Users, st.Follows, conf.Feed.PageSize),
		Posts:    service.NewPostService(st.Posts, st.Groups, st.Comments, st.Images),
		Comments: service.NewCommentService(st.Posts, st.Comments),
		Follows:  service.NewFollowService(st.Users, st.Follows, log),
		Groups:   service.NewGroupService(st.Groups),
		Auth:     service.NewAuthService(st.Users, st.Sessions, tokens),
	}
}

// newSender 配了 kafka 就投递到 topic，否则只打日志
func newSender(conf config.Kafka, log *slog.Logger) (service.Sender, func() error) {
	if !conf.Enabled {
		return service.LogSender(log), func() error { return nil }
	}
	producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: conf.Brokers, Topic: conf.Topic})
	log.Info("kafka producer ready", slog.String("topic", producer.Topic()))
	return service.KafkaSender(producer), producer.Close
}

// Run 启动 HTTP 服务和 outbox 投递，ctx 结束后全部退出
func Run(ctx context.Context, conf *config.Config, log *slog.Logger) error {
	st, err := NewStorage(ctx, conf, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("storage close", pkg.Err(err))
		}
	}()

	svc := NewServices(st, conf, log)

	engine, err := router.InitRouter(router.Deps{
		Feed:         svc.Feed,
		Posts:        svc.Posts,
		Comments:     svc.Comments,
		Follows:      svc.Follows,
		Groups:       svc.Groups,
		Auth:         svc.Auth,
		PageStore:    st.Pages,
		HomeCacheTTL: conf.Feed.HomeCacheTTL,
		AccessTTL:    conf.JWT.AccessTTL,
		CORSOrigins:  conf.HTTPServer.CORSOrigins,
		Log:          log,
	})
	if err != nil {
		return fmt.Errorf("router init: %w", err)
	}

	sender, closeSender := newSender(conf.Kafka, log)
	defer func() {
		if err := closeSender(); err != nil {
			log.Error("kafka close", pkg.Err(err))
		}
	}()
	relayer := service.NewOutboxRelayer(st.Outbox, sender, log, service.RelayerOptions{
		BatchSize: conf.Kafka.BatchSize,
		Interval:  conf.Kafka.PollInterval,
		MaxRetry:  conf.Kafka.MaxRetry,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		relayer.Run(ctx)
	}()

	err = httpserver.New(conf.HTTPServer, engine, log).Run(ctx)
	cancel()
	wg.Wait()
	return err
}
