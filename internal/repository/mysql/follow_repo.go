package mysql

import (
	"context"
	"encoding/json"
	"time"

	"yatube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// Follow 幂等关注，唯一索引 (follower_id, author_id) 兜底并发；新建时返回 true
func (r *FollowRepository) Follow(ctx context.Context, followerID, authorID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rel := model.Follow{FollowerID: followerID, AuthorID: authorID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rel)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 已经关注过
			return nil
		}
		changed = true
		return insertOutbox(tx, model.EventFollow, followerID, authorID)
	})
	return changed, err
}

// Unfollow 删除关系，不存在时什么都不做
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, authorID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND author_id = ?", followerID, authorID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, model.EventUnfollow, followerID, authorID)
	})
	return changed, err
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowedAuthorIDs 关注的作者 id 集合，给关注流用
func (r *FollowRepository) ListFollowedAuthorIDs(ctx context.Context, followerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Order("author_id ASC").
		Pluck("author_id", &ids).Error
	return ids, err
}

// 插入outbox事件表
func insertOutbox(tx *gorm.DB, event string, follower, followee uint64) error {
	payload, err := json.Marshal(map[string]any{
		"event":      event,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"follower":   follower,
		"followee":   followee,
	})
	if err != nil {
		return err
	}
	ob := &model.SocialOutbox{
		EventType: event,
		Follower:  follower,
		Followee:  followee,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}
	return tx.Create(ob).Error
}

// ListPending 待投递和可重试的失败事件，按 id 顺序
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize, maxRetry int) ([]model.SocialOutbox, error) {
	var list []model.SocialOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkFailed outbox记录消息失败重试
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error
}

// MarkSent outbox成功记录消息更新
func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
