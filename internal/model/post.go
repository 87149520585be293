package model

import (
	"time"

	"gorm.io/datatypes"
)

// Post 对应于数据库中的 'posts' 表。
// 该表通过自引用同时承载故事与评论：
//   - 顶层故事：PostID 为 NULL；
//   - 评论：PostID 指向所属故事；
//   - 回复：ParentCommentID 指向被回复的评论（只允许一层嵌套）。
type Post struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"index;not null" json:"userId"`
	PostID          *uint          `gorm:"index" json:"postId"`
	ParentCommentID *uint          `gorm:"index" json:"parentCommentId"`
	Title           string         `gorm:"type:varchar(255)" json:"title"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	TopicTags       datatypes.JSON `gorm:"type:jsonb" json:"topicTags"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}

// UserFavorite 对应于数据库中的 'user_favorites' 表，记录用户收藏的故事。
type UserFavorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_user_post,unique;not null" json:"userId"`
	PostID    uint      `gorm:"index:idx_user_post,unique;not null" json:"postId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (UserFavorite) TableName() string {
	return "user_favorites"
}
