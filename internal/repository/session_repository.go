package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"village-go/internal/model"
	"village-go/pkg/log"
)

// SessionRepository 定义了聊天会话历史在键值存储中的读写操作。
// 每个用户一个键，值为完整会话列表的 JSON；写入是整体替换（last-write-wins）。
type SessionRepository interface {
	// GetSessions 读取用户的全部会话。键不存在或内容损坏时返回空列表，
	// 只记录日志，永远不向调用方抛错（fail-soft）。
	GetSessions(ctx context.Context, userID uint) ([]model.ChatSession, error)
	SaveSessions(ctx context.Context, userID uint, sessions []model.ChatSession) error
	DeleteAll(ctx context.Context, userID uint) error
}

type redisSessionRepository struct {
	redisClient *redis.Client
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(redisClient *redis.Client) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("user:%d:chat_sessions", userID)
}

// GetSessions 从 Redis 读取会话列表。
func (r *redisSessionRepository) GetSessions(ctx context.Context, userID uint) ([]model.ChatSession, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return []model.ChatSession{}, nil // 还没有任何会话
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat sessions: %w", err)
	}
	var sessions []model.ChatSession
	if err := json.Unmarshal([]byte(jsonData), &sessions); err != nil {
		// 存储损坏按空历史处理，不把错误抛给上层
		log.Warnf("chat sessions for user %d are unparseable, treating as empty: %v", userID, err)
		return []model.ChatSession{}, nil
	}
	return sessions, nil
}

// SaveSessions 将会话列表整体写入 Redis。
func (r *redisSessionRepository) SaveSessions(ctx context.Context, userID uint, sessions []model.ChatSession) error {
	jsonData, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal chat sessions: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(userID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to set chat sessions: %w", err)
	}
	return nil
}

// DeleteAll 删除用户的全部会话。
func (r *redisSessionRepository) DeleteAll(ctx context.Context, userID uint) error {
	if err := r.redisClient.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete chat sessions: %w", err)
	}
	return nil
}
