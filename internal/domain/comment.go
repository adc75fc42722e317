package domain

import "time"

// Comment 表示文章下的一条评论。
type Comment struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:char(36);index;not null" json:"postId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"type:char(36);index;not null" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
