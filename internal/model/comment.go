package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"post_id"`
	AuthorID  uint64    `gorm:"not null" json:"-"`
	Author    User      `json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created"`
}
