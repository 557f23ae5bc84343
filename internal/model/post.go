package model

import "time"

// postPreviewLen is how many characters String shows.
const postPreviewLen = 15

type Post struct {
	ID        uint64    `gorm:"primaryKey;index:idx_created_id,priority:2,sort:desc" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_created_id,priority:1,sort:desc" json:"created"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	GroupID   *uint64   `gorm:"index" json:"-"`
	Group     *Group    `gorm:"constraint:OnDelete:SET NULL" json:"group"`
	AuthorID  uint64    `gorm:"not null;index:idx_author_time" json:"-"`
	Author    User      `json:"author"`
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		r = r[:postPreviewLen]
	}
	return string(r)
}
