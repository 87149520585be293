package service

import (
	"context"
	"time"

	"village-go/internal/config"
	"village-go/internal/model"
	"village-go/internal/repository"
)

// previewLen 是会话预览文本的最大长度（取首条用户消息的前 100 个字符）。
const previewLen = 100

// defaultMaxSessions 是配置缺省时每个用户保留的会话上限。
const defaultMaxSessions = 20

// SessionService 定义了聊天会话历史的业务操作。
// 会话列表按最近更新在前排序，写入是 last-write-wins。
type SessionService interface {
	// Save 以 sessionID 为键 upsert 一次会话。
	// 只有一条消息（助手问候语）、或没有任何用户消息的会话不会被持久化；
	// 已存在的会话被更新时保留其原始时间戳；新会话插入队首，
	// 超出上限后最旧的会话被静默淘汰。
	Save(ctx context.Context, userID uint, sessionID string, messages []model.ChatMessage, matchedStories []model.MatchedStory) error
	// Load 返回用户的全部会话，最近的在前；存储异常时返回空列表。
	Load(ctx context.Context, userID uint) ([]model.ChatSession, error)
	// Delete 按 ID 删除一次会话；删除不存在的 ID 是 no-op。
	Delete(ctx context.Context, userID uint, sessionID string) error
	// Clear 删除用户的全部会话。
	Clear(ctx context.Context, userID uint) error
}

type sessionService struct {
	repo        repository.SessionRepository
	maxSessions int
}

// NewSessionService 创建一个新的 SessionService 实例。
func NewSessionService(repo repository.SessionRepository, cfg config.SessionConfig) SessionService {
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	return &sessionService{
		repo:        repo,
		maxSessions: maxSessions,
	}
}

// Save 将一次会话写入存储。
func (s *sessionService) Save(ctx context.Context, userID uint, sessionID string, messages []model.ChatMessage, matchedStories []model.MatchedStory) error {
	// 不变量：持久化的会话至少包含一条用户消息
	if len(messages) <= 1 {
		return nil
	}
	var firstUserMsg *model.ChatMessage
	for i := range messages {
		if messages[i].Role == "user" {
			firstUserMsg = &messages[i]
			break
		}
	}
	if firstUserMsg == nil {
		return nil
	}

	preview := firstUserMsg.Content
	if runes := []rune(preview); len(runes) > previewLen {
		preview = string(runes[:previewLen])
	}
	if matchedStories == nil {
		matchedStories = []model.MatchedStory{}
	}

	sessions, err := s.repo.GetSessions(ctx, userID)
	if err != nil {
		return err
	}

	// 已存在则原地更新，保留原始时间戳
	for i := range sessions {
		if sessions[i].ID == sessionID {
			sessions[i].Messages = messages
			sessions[i].Preview = preview
			sessions[i].MatchedStories = matchedStories
			return s.repo.SaveSessions(ctx, userID, sessions)
		}
	}

	session := model.ChatSession{
		ID:             sessionID,
		Timestamp:      time.Now(),
		Messages:       messages,
		Preview:        preview,
		MatchedStories: matchedStories,
	}
	sessions = append([]model.ChatSession{session}, sessions...)
	if len(sessions) > s.maxSessions {
		// 最旧的会话被静默淘汰，淘汰不可逆
		sessions = sessions[:s.maxSessions]
	}
	return s.repo.SaveSessions(ctx, userID, sessions)
}

// Load 返回用户的全部会话。
func (s *sessionService) Load(ctx context.Context, userID uint) ([]model.ChatSession, error) {
	return s.repo.GetSessions(ctx, userID)
}

// Delete 按 ID 删除一次会话。
func (s *sessionService) Delete(ctx context.Context, userID uint, sessionID string) error {
	sessions, err := s.repo.GetSessions(ctx, userID)
	if err != nil {
		return err
	}
	kept := sessions[:0]
	for _, session := range sessions {
		if session.ID != sessionID {
			kept = append(kept, session)
		}
	}
	if len(kept) == len(sessions) {
		return nil
	}
	return s.repo.SaveSessions(ctx, userID, kept)
}

// Clear 删除用户的全部会话。
func (s *sessionService) Clear(ctx context.Context, userID uint) error {
	return s.repo.DeleteAll(ctx, userID)
}
