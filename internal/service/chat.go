package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	chatSystemPrompt = "You are a helpful assistant for NextStep Guidance, a consultancy platform that helps users achieve their goals through structured planning. Be friendly, concise, and helpful. Answer questions about the service, how it works, goal setting, and general inquiries."
	chatFallback     = "I apologize, but I could not generate a response. Please try again."
	chatTemperature  = 0.7
	chatMaxTokens    = 500
)

var (
	ErrNoMessages      = errors.New("messages array is required")
	ErrInvalidChatRole = errors.New("message role must be user or assistant")
)

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// HTTPClient overrides the transport; nil uses the default client.
	HTTPClient *http.Client
}

// ChatService forwards a conversation to an OpenAI-compatible completion
// endpoint behind the persona prompt. Failed calls are not retried.
type ChatService struct {
	client openai.Client
	model  string
}

func NewChatService(cfg ChatConfig) *ChatService {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &ChatService{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// ValidateMessages rejects an empty conversation and any role the widget never sends.
func ValidateMessages(messages []model.ChatMessage) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}
	for _, m := range messages {
		if m.Role != model.ChatRoleUser && m.Role != model.ChatRoleAssistant {
			return ErrInvalidChatRole
		}
	}
	return nil
}

func (s *ChatService) Reply(ctx context.Context, messages []model.ChatMessage) (string, error) {
	err := ValidateMessages(messages)
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.model),
		Messages:    buildChatMessages(messages),
		Temperature: openai.Float(chatTemperature),
		MaxTokens:   openai.Int(chatMaxTokens),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return chatFallback, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func buildChatMessages(messages []model.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	out = append(out, openai.SystemMessage(chatSystemPrompt))
	for _, m := range messages {
		if m.Role == model.ChatRoleAssistant {
			out = append(out, openai.AssistantMessage(m.Content))
			continue
		}
		out = append(out, openai.UserMessage(m.Content))
	}
	return out
}
