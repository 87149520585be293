package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"village-go/internal/config"
	"village-go/internal/model"
)

// fakeSessionRepo 是 SessionRepository 的内存实现。
type fakeSessionRepo struct {
	store map[uint][]model.ChatSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{store: make(map[uint][]model.ChatSession)}
}

func (f *fakeSessionRepo) GetSessions(_ context.Context, userID uint) ([]model.ChatSession, error) {
	return append([]model.ChatSession{}, f.store[userID]...), nil
}

func (f *fakeSessionRepo) SaveSessions(_ context.Context, userID uint, sessions []model.ChatSession) error {
	f.store[userID] = append([]model.ChatSession{}, sessions...)
	return nil
}

func (f *fakeSessionRepo) DeleteAll(_ context.Context, userID uint) error {
	delete(f.store, userID)
	return nil
}

const testUserID uint = 7

func newTestSessionService() (SessionService, *fakeSessionRepo) {
	repo := newFakeSessionRepo()
	return NewSessionService(repo, config.SessionConfig{MaxSessions: 20}), repo
}

// qualifyingMessages 构造一组满足持久化条件的消息（问候语 + 用户消息）。
func qualifyingMessages(userContent string) []model.ChatMessage {
	return []model.ChatMessage{
		{ID: "m1", Role: "assistant", Content: "Hi, I'm here to listen."},
		{ID: "m2", Role: "user", Content: userContent},
	}
}

// 只有助手问候语的会话不会被持久化
func TestSaveSkipsGreetingOnlySession(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	greeting := []model.ChatMessage{{ID: "m1", Role: "assistant", Content: "Hi, I'm here to listen."}}
	assert.NoError(t, svc.Save(ctx, testUserID, "s1", greeting, nil))

	sessions, err := svc.Load(ctx, testUserID)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

// 没有任何用户消息的会话同样不会被持久化
func TestSaveSkipsSessionWithoutUserMessage(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	messages := []model.ChatMessage{
		{ID: "m1", Role: "assistant", Content: "Hi."},
		{ID: "m2", Role: "assistant", Content: "Are you still there?"},
	}
	assert.NoError(t, svc.Save(ctx, testUserID, "s1", messages, nil))

	sessions, err := svc.Load(ctx, testUserID)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

// 合格的保存创建会话，预览取首条用户消息的前 100 个字符
func TestSaveCreatesSessionWithPreview(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	longMessage := strings.Repeat("lonely ", 30) // 210 字符
	assert.NoError(t, svc.Save(ctx, testUserID, "s1", qualifyingMessages(longMessage), nil))

	sessions, err := svc.Load(ctx, testUserID)
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Len(t, []rune(sessions[0].Preview), 100)
	assert.Equal(t, longMessage[:100], sessions[0].Preview)
	assert.NotNil(t, sessions[0].MatchedStories)
}

// 以相同 ID 再次保存：时间戳保留，消息与预览被替换
func TestSaveUpsertPreservesTimestamp(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	assert.NoError(t, svc.Save(ctx, testUserID, "s1", qualifyingMessages("first message"), nil))
	sessions, _ := svc.Load(ctx, testUserID)
	originalTimestamp := sessions[0].Timestamp

	updated := append(qualifyingMessages("first message"),
		model.ChatMessage{ID: "m3", Role: "assistant", Content: "reply"},
		model.ChatMessage{ID: "m4", Role: "user", Content: "second message"},
	)
	matched := []model.MatchedStory{{PostID: 3, Content: "a story", SimilarityScore: 0.82}}
	assert.NoError(t, svc.Save(ctx, testUserID, "s1", updated, matched))

	sessions, err := svc.Load(ctx, testUserID)
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, originalTimestamp, sessions[0].Timestamp)
	assert.Len(t, sessions[0].Messages, 4)
	assert.Equal(t, matched, sessions[0].MatchedStories)
}

// 第 21 次不同 ID 的保存淘汰最旧的会话，保留 20 条且最近的在前
func TestSaveEvictsOldestBeyondCap(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	for i := 1; i <= 21; i++ {
		sessionID := fmt.Sprintf("session-%d", i)
		assert.NoError(t, svc.Save(ctx, testUserID, sessionID, qualifyingMessages(sessionID), nil))
	}

	sessions, err := svc.Load(ctx, testUserID)
	assert.NoError(t, err)
	assert.Len(t, sessions, 20)
	assert.Equal(t, "session-21", sessions[0].ID)
	assert.Equal(t, "session-2", sessions[19].ID)
	for _, session := range sessions {
		assert.NotEqual(t, "session-1", session.ID)
	}
}

// 删除按 ID 生效且是幂等的
func TestDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	assert.NoError(t, svc.Save(ctx, testUserID, "s1", qualifyingMessages("hello"), nil))
	assert.NoError(t, svc.Save(ctx, testUserID, "s2", qualifyingMessages("world"), nil))

	assert.NoError(t, svc.Delete(ctx, testUserID, "s1"))
	sessions, _ := svc.Load(ctx, testUserID)
	assert.Len(t, sessions, 1)
	assert.Equal(t, "s2", sessions[0].ID)

	// 删除不存在的 ID 是 no-op
	assert.NoError(t, svc.Delete(ctx, testUserID, "missing"))
	sessions, _ = svc.Load(ctx, testUserID)
	assert.Len(t, sessions, 1)
}

// 清空删除全部会话
func TestClearRemovesAllSessions(t *testing.T) {
	svc, _ := newTestSessionService()
	ctx := context.Background()

	assert.NoError(t, svc.Save(ctx, testUserID, "s1", qualifyingMessages("hello"), nil))
	assert.NoError(t, svc.Clear(ctx, testUserID))

	sessions, err := svc.Load(ctx, testUserID)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}
