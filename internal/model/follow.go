package model

import "time"

// Follow 有向边：FollowerID 关注 AuthorID，每个有序对最多一条
type Follow struct {
	ID         uint64 `gorm:"primaryKey"`
	FollowerID uint64 `gorm:"not null;uniqueIndex:uk_follower_author,priority:1"`
	AuthorID   uint64 `gorm:"not null;uniqueIndex:uk_follower_author,priority:2;index:idx_author_id"`
	CreatedAt  time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2

	EventFollow   = "follow"
	EventUnfollow = "unfollow"
)

// SocialOutbox 关注事件表，和关系变更同一事务写入
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // follow / unfollow
	Follower  uint64 `gorm:"not null"`
	Followee  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }
