package model

import "time"

// ChatMessage 代表一轮对话中的单条消息。
// 消息一经创建不可变，transcript 在会话生命周期内只追加。
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MatchedStory 是外部语义匹配服务返回的结果行。
// 本服务只透传和随会话保存，不做任何二次加工。
type MatchedStory struct {
	PostID          uint      `json:"post_id"`
	Content         string    `json:"content"`
	TopicTags       []string  `json:"topic_tags"`
	SimilarityScore float64   `json:"similarity_score"`
	Timestamp       time.Time `json:"timestamp"`
}

// ChatSession 代表存储在 Redis 中的一次完整对话会话。
// 不变量：保存下来的会话至少包含一条用户消息。
type ChatSession struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Messages       []ChatMessage  `json:"messages"`
	Preview        string         `json:"preview"`
	MatchedStories []MatchedStory `json:"matchedStories"`
}
