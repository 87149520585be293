package service

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"village-go/internal/config"
	"village-go/internal/model"
	"village-go/pkg/llm"
	"village-go/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	os.Exit(m.Run())
}

// fakeLLMClient 记录收到的消息并返回预设的回复或错误。
type fakeLLMClient struct {
	reply       string
	err         error
	gotMessages []llm.Message
}

func (f *fakeLLMClient) ChatCompletion(_ context.Context, messages []llm.Message, _ *llm.GenerationParams) (string, error) {
	f.gotMessages = messages
	return f.reply, f.err
}

// makeTranscript 构造 userTurns 轮用户发言的 transcript，轮次之间穿插助手回复。
func makeTranscript(userTurns int) []model.ChatMessage {
	var messages []model.ChatMessage
	for i := 0; i < userTurns; i++ {
		messages = append(messages, model.ChatMessage{Role: "user", Content: fmt.Sprintf("user message %d", i+1)})
		if i < userTurns-1 {
			messages = append(messages, model.ChatMessage{Role: "assistant", Content: "assistant reply"})
		}
	}
	return messages
}

// 强制 mock 时，回复由 min(n-1, 3) 从固定回复表中选取
func TestMockReplySelection(t *testing.T) {
	svc := NewChatService(&fakeLLMClient{}, config.ChatConfig{UseMock: true})

	cases := []struct {
		userTurns int
		wantIndex int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 3},
		{5, 3}, // 超过回复表长度后固定使用最后一条
		{9, 3},
	}
	for _, tc := range cases {
		reply, err := svc.Reply(context.Background(), makeTranscript(tc.userTurns))
		assert.NoError(t, err)
		assert.Equal(t, mockReplies[tc.wantIndex], reply, "userTurns=%d", tc.userTurns)
	}
}

// 第 4 轮用户发言必须得到邀请查看匹配故事的回复
func TestMockReplyStoryInvitation(t *testing.T) {
	transcript := []model.ChatMessage{
		{Role: "user", Content: "I feel alone"},
		{Role: "assistant", Content: "assistant reply"},
		{Role: "user", Content: "Nobody gets it"},
		{Role: "assistant", Content: "assistant reply"},
		{Role: "user", Content: "It's been years"},
		{Role: "assistant", Content: "assistant reply"},
		{Role: "user", Content: "I don't know what to do"},
	}
	svc := NewChatService(&fakeLLMClient{}, config.ChatConfig{UseMock: true})
	reply, err := svc.Reply(context.Background(), transcript)
	assert.NoError(t, err)
	assert.Equal(t, mockReplies[3], reply)
	assert.Contains(t, reply, "stories")
}

// 供应商成功时原样返回其回复，并带上人设 system 指令
func TestLiveProviderReply(t *testing.T) {
	client := &fakeLLMClient{reply: "It sounds like today was hard for you."}
	svc := NewChatService(client, config.ChatConfig{APIKey: "test-key"})

	reply, err := svc.Reply(context.Background(), makeTranscript(2))
	assert.NoError(t, err)
	assert.Equal(t, "It sounds like today was hard for you.", reply)

	// transcript 前必须注入人设指令
	assert.Equal(t, "system", client.gotMessages[0].Role)
	assert.Equal(t, personaPrompt, client.gotMessages[0].Content)
	assert.Len(t, client.gotMessages, 4)
	assert.Equal(t, "user", client.gotMessages[1].Role)
}

// 供应商失败被完全吸收：调用方拿到 mock 回复而不是错误
func TestProviderFailureFallsBackToMock(t *testing.T) {
	client := &fakeLLMClient{err: fmt.Errorf("chat api returned non-200 status: 503")}
	svc := NewChatService(client, config.ChatConfig{APIKey: "test-key"})

	reply, err := svc.Reply(context.Background(), makeTranscript(1))
	assert.NoError(t, err)
	assert.Equal(t, mockReplies[0], reply)
}

// 没有配置密钥时不调用供应商
func TestNoAPIKeySkipsProvider(t *testing.T) {
	client := &fakeLLMClient{reply: "should not be used"}
	svc := NewChatService(client, config.ChatConfig{})

	reply, err := svc.Reply(context.Background(), makeTranscript(1))
	assert.NoError(t, err)
	assert.Equal(t, mockReplies[0], reply)
	assert.Nil(t, client.gotMessages)
}
