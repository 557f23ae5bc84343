package model

// Group 主题版块，由管理员创建，帖子只引用不拥有
type Group struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g Group) String() string {
	return g.Title
}
