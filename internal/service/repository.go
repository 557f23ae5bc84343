package service

import (
	"context"
	"io"
	"time"

	"yatube/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	FindByID(ctx context.Context, id uint64) (*model.Group, error)
	FindBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
}

// PostRepository 所有列表方法都按 created_at DESC, id DESC 排序，并带出 Author/Group
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	BulkCreate(ctx context.Context, posts []*model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)

	CountAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.Post, error)
	CountByGroup(ctx context.Context, groupID uint64) (int64, error)
	ListByGroup(ctx context.Context, groupID uint64, offset, limit int) ([]model.Post, error)
	CountByAuthor(ctx context.Context, authorID uint64) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]model.Post, error)
	CountByAuthors(ctx context.Context, authorIDs []uint64) (int64, error)
	ListByAuthors(ctx context.Context, authorIDs []uint64, offset, limit int) ([]model.Post, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost 按 created_at ASC, id ASC
	ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error)
}

type FollowRepository interface {
	// Follow/Unfollow 返回关系是否真的发生变化，变化时同事务写 outbox
	Follow(ctx context.Context, followerID, authorID uint64) (bool, error)
	Unfollow(ctx context.Context, followerID, authorID uint64) (bool, error)
	IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error)
	ListFollowedAuthorIDs(ctx context.Context, followerID uint64) ([]uint64, error)
}

type OutboxRepository interface {
	ListPending(ctx context.Context, batchSize, maxRetry int) ([]model.SocialOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

// SessionStore 每个用户只保留一个有效 access token
type SessionStore interface {
	Save(ctx context.Context, userID uint64, token string, ttl time.Duration) error
	Get(ctx context.Context, userID uint64) (string, error)
	Extend(ctx context.Context, userID uint64, ttl time.Duration) error
	Delete(ctx context.Context, userID uint64) error
}

// ImageStore 返回对象 key，存在 Post.Image
type ImageStore interface {
	Put(ctx context.Context, prefix, filename, contentType string, size int64, body io.Reader) (string, error)
}
