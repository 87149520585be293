// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"time"

	"village-go/internal/config"
	"village-go/internal/model"
	"village-go/pkg/llm"
	"village-go/pkg/log"
)

// personaPrompt 是固定的倾听者人设指令，约束回复为同伴支持式、
// 简短、少量开放式提问，并在多轮后引导用户查看匹配故事。
const personaPrompt = `You are a warm, supportive peer listener for Village, a space for people who feel lonely or left out. You are a caring peer, not a therapist, and you never give medical or clinical advice. Keep every reply to two or three sentences at most, and ask no more than one or two gentle, open questions. After the person has shared three or four times, briefly summarize what you heard and offer to show them stories from people who have been through something similar. If the person expresses any thought of harming themselves, gently encourage them to contact a crisis line such as 988 right away instead of trying to counsel them yourself.`

// mockReplies 是 mock 路径使用的固定回复表，按用户发言轮次选取；
// 最后一条明确邀请用户查看匹配到的故事。
var mockReplies = []string{
	"Thank you for sharing that with me. It sounds really heavy, and it takes courage to put it into words. How long have you been feeling this way?",
	"I hear you. Carrying that kind of loneliness day after day is exhausting, and it makes sense that it hurts. What part of it has been weighing on you the most?",
	"That makes a lot of sense, and you're not wrong for feeling it. A lot of people here have been through something very similar. Has anything helped, even a little?",
	"Thank you for trusting me with all of this. From what you've shared, I think it could help to read how others got through something like this — would you like to see a few stories from people who've been there?",
}

// ChatService 定义了聊天代理的接口。
type ChatService interface {
	// Reply 接收完整的对话 transcript，返回一条助手回复。
	// 供应商失败在内部被完全吸收，调用方拿到的永远是成功的回复。
	Reply(ctx context.Context, messages []model.ChatMessage) (string, error)
}

type chatService struct {
	llmClient llm.Client
	cfg       config.ChatConfig
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(llmClient llm.Client, cfg config.ChatConfig) ChatService {
	return &chatService{
		llmClient: llmClient,
		cfg:       cfg,
	}
}

// Reply 决定本轮走真实供应商还是 mock 路径，并返回回复。
// 每次调用独立决策：本轮供应商失败只影响本轮，不影响后续调用。
func (s *chatService) Reply(ctx context.Context, messages []model.ChatMessage) (string, error) {
	userTurns := 0
	for _, m := range messages {
		if m.Role == "user" {
			userTurns++
		}
	}

	// 配置了密钥且未强制 mock 时优先调用真实供应商
	if s.cfg.APIKey != "" && !s.cfg.UseMock {
		reply, err := s.callProvider(ctx, messages)
		if err == nil {
			return reply, nil
		}
		// 供应商失败（网络错误、非 2xx、超时）不向用户暴露，回退到 mock
		log.Warnf("chat provider call failed, falling back to mock reply: %v", err)
	}

	return s.mockReply(userTurns), nil
}

// callProvider 将人设指令与调用方 transcript 组装后发给补全接口。
func (s *chatService) callProvider(ctx context.Context, messages []model.ChatMessage) (string, error) {
	llmMsgs := make([]llm.Message, 0, len(messages)+1)
	llmMsgs = append(llmMsgs, llm.Message{Role: "system", Content: personaPrompt})
	for _, m := range messages {
		llmMsgs = append(llmMsgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	return s.llmClient.ChatCompletion(ctx, llmMsgs, nil)
}

// mockReply 按 min(n-1, 3) 从固定回复表中选取一条，n 为用户发言轮次。
// 人为延迟用于保持与真实路径相近的感知延迟。
func (s *chatService) mockReply(userTurns int) string {
	if s.cfg.MockDelayMs > 0 {
		time.Sleep(time.Duration(s.cfg.MockDelayMs) * time.Millisecond)
	}
	idx := userTurns - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(mockReplies) {
		idx = len(mockReplies) - 1
	}
	return mockReplies[idx]
}
