// Package chat binds the chat REST endpoints to the envelope client.
package chat

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"Showcase/internal/apiclient"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role             Role   `json:"role"`
	Content          string `json:"content"`
	ReasoningContent string `json:"reasoningContent,omitempty"`
	// ReasoningTime is sent by the server either as seconds or as preformatted text.
	ReasoningTime any `json:"reasoningTime,omitempty"`
}

type Chat struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type History struct {
	Chat
	CreateDate string    `json:"createDate"`
	Messages   []Message `json:"messages"`
}

type CreateParams struct {
	ChatID   int         `json:"chatId"`
	Messages UserMessage `json:"messages"`
}

type UserMessage struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

type Service struct {
	Client *apiclient.Client
}

func NewService(c *apiclient.Client) *Service {
	return &Service{Client: c}
}

// CreateChat starts a chat, or continues chatID, with one user message.
func (s *Service) CreateChat(ctx context.Context, chatID int, content string) (Chat, error) {
	env, err := apiclient.Post[Chat](ctx, s.Client, "/chat/createChat", CreateParams{
		ChatID:   chatID,
		Messages: UserMessage{Content: content, Role: RoleUser},
	})
	return env.Data, err
}

func (s *Service) UserChatMenu(ctx context.Context) ([]Chat, error) {
	env, err := apiclient.Get[[]Chat](ctx, s.Client, "/chat/userChatMenu", nil)
	return env.Data, err
}

// MessagesHistory holds the loading indicator while the history downloads.
func (s *Service) MessagesHistory(ctx context.Context, chatID int) (History, error) {
	env, err := apiclient.RequestWithLoading[History](ctx, s.Client, http.MethodGet,
		"/chat/messagesHistory", nil, chatParams(chatID))
	return env.Data, err
}

func (s *Service) DeleteChat(ctx context.Context, chatID int) (string, error) {
	env, err := apiclient.Delete[string](ctx, s.Client, "/chat/deleteChat", chatParams(chatID))
	return env.Data, err
}

func (s *Service) UpdateChatTitle(ctx context.Context, chatID int, title string) (string, error) {
	env, err := apiclient.Put[string](ctx, s.Client, "/chat/updateChatTitle", Chat{ID: chatID, Title: title})
	return env.Data, err
}

func chatParams(id int) url.Values {
	return url.Values{"chatId": []string{strconv.Itoa(id)}}
}
