package service

import (
	"context"
	"log/slog"
	"time"

	"yatube/internal/model"
	"yatube/internal/pkg"
)

type FollowService struct {
	users   UserRepository
	follows FollowRepository
	log     *slog.Logger
}

func NewFollowService(users UserRepository, follows FollowRepository, log *slog.Logger) *FollowService {
	return &FollowService{users: users, follows: follows, log: log}
}

func (s *FollowService) resolve(ctx context.Context, followerID uint64, username string) (*model.User, error) {
	if followerID == 0 {
		return nil, pkg.ErrUnauthenticated
	}
	return s.users.FindByUsername(ctx, username)
}

// Follow 关注自己或重复关注都是 no-op
func (s *FollowService) Follow(ctx context.Context, followerID uint64, username string) (bool, error) {
	author, err := s.resolve(ctx, followerID, username)
	if err != nil {
		return false, err
	}
	if author.ID == followerID {
		return false, nil
	}
	changed, err := s.follows.Follow(ctx, followerID, author.ID)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Debug("follow", slog.Uint64("follower", followerID), slog.Uint64("author", author.ID))
	}
	return changed, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID uint64, username string) (bool, error) {
	author, err := s.resolve(ctx, followerID, username)
	if err != nil {
		return false, err
	}
	if author.ID == followerID {
		return false, nil
	}
	changed, err := s.follows.Unfollow(ctx, followerID, author.ID)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Debug("unfollow", slog.Uint64("follower", followerID), slog.Uint64("author", author.ID))
	}
	return changed, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, viewerID, authorID uint64) (bool, error) {
	if viewerID == 0 || authorID == 0 {
		return false, nil
	}
	return s.follows.IsFollowing(ctx, viewerID, authorID)
}

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// EventPublisher kafka 生产者的最小接口
type EventPublisher interface {
	Publish(ctx context.Context, ev pkg.Event) error
}

type RelayerOptions struct {
	BatchSize int
	Interval  time.Duration
	MaxRetry  int
}

// OutboxRelayer outbox表相关服务
type OutboxRelayer struct {
	repo      OutboxRepository
	sender    Sender
	log       *slog.Logger
	batchSize int
	interval  time.Duration
	maxRetry  int
}

func NewOutboxRelayer(repo OutboxRepository, sender Sender, log *slog.Logger, opts RelayerOptions) *OutboxRelayer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 5
	}
	return &OutboxRelayer{
		repo:      repo,
		sender:    sender,
		log:       log,
		batchSize: opts.BatchSize,
		interval:  opts.Interval,
		maxRetry:  opts.MaxRetry,
	}
}

// Run outbox启动器，ctx 取消时退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.ListPending(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		r.log.Error("outbox query", pkg.Err(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send", slog.Uint64("id", ob.ID), slog.Int("retry", ob.Retry+1), pkg.Err(err))
			if err := r.repo.MarkFailed(ctx, ob.ID); err != nil {
				r.log.Error("outbox mark failed", slog.Uint64("id", ob.ID), pkg.Err(err))
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.log.Error("outbox mark sent", slog.Uint64("id", ob.ID), pkg.Err(err))
			continue
		}
		sent++
	}
	return sent
}

// LogSender 没配 kafka 时只打日志
func LogSender(log *slog.Logger) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		log.Info("outbox event",
			slog.String("type", ob.EventType),
			slog.Uint64("follower", ob.Follower),
			slog.Uint64("followee", ob.Followee),
			slog.String("payload", ob.Payload),
		)
		return nil
	}
}

// KafkaSender 以 follower id 作为 key，同一用户的事件有序
func KafkaSender(p EventPublisher) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return p.Publish(ctx, pkg.Event{
			Key:     pkg.MakeKeyFromID(ob.Follower),
			Type:    ob.EventType,
			Payload: []byte(ob.Payload),
			Time:    ob.CreatedAt,
		})
	}
}
