package model

import "time"

// Story 是故事列表与详情页使用的派生视图。
// 所有派生字段（标题、摘要、阅读时长、主题、笔名）都由 derive 包从原始
// posts 行确定性地计算得到。
type Story struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	Themes        []string  `json:"themes"`
	ReadTime      int       `json:"readTime"`
	DatePosted    time.Time `json:"datePosted"`
	CommentCount  int64     `json:"commentCount"`
	FavoriteCount int64     `json:"favoriteCount"`
}

// CommentView 是故事详情页的评论视图，回复只允许一层嵌套。
type CommentView struct {
	ID        uint          `json:"id"`
	Author    string        `json:"author"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	Replies   []CommentView `json:"replies,omitempty"`
}
