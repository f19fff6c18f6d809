package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Showcase/internal/apiclient"
	"Showcase/internal/chat"
)

type recorded struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newService(t *testing.T, data any) (*chat.Service, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path, rec.query = r.Method, r.URL.Path, r.URL.RawQuery
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "success", "data": data})
	}))
	t.Cleanup(srv.Close)

	return chat.NewService(apiclient.NewClient(srv.URL, zap.NewNop())), rec
}

func TestCreateChat(t *testing.T) {
	s, rec := newService(t, map[string]any{"id": 7, "title": "hello"})

	c, err := s.CreateChat(context.Background(), 0, "hello there")
	require.NoError(t, err)
	assert.Equal(t, chat.Chat{ID: 7, Title: "hello"}, c)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/chat/createChat", rec.path)
	assert.EqualValues(t, 0, rec.body["chatId"])
	assert.Equal(t, map[string]any{"content": "hello there", "role": "user"}, rec.body["messages"])
}

func TestUserChatMenu(t *testing.T) {
	s, rec := newService(t, []map[string]any{{"id": 1, "title": "a"}, {"id": 2, "title": "b"}})

	chats, err := s.UserChatMenu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []chat.Chat{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, chats)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/chat/userChatMenu", rec.path)
}

func TestMessagesHistory(t *testing.T) {
	s, rec := newService(t, map[string]any{
		"id":         3,
		"title":      "t",
		"createDate": "2024-05-01",
		"messages": []map[string]any{
			{"role": "user", "content": "hi"},
			{"role": "assistant", "content": "hello", "reasoningContent": "greeting", "reasoningTime": 1.5},
		},
	})
	ind := &countingIndicator{}
	s.Client.Loading = apiclient.NewLoadingTracker(ind)

	h, err := s.MessagesHistory(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, h.ID)
	assert.Equal(t, "2024-05-01", h.CreateDate)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, chat.RoleAssistant, h.Messages[1].Role)
	assert.Equal(t, 1.5, h.Messages[1].ReasoningTime)

	assert.Equal(t, "chatId=3", rec.query)
	assert.Equal(t, 1, ind.shows)
	assert.Equal(t, 1, ind.hides)
}

func TestDeleteChat(t *testing.T) {
	s, rec := newService(t, "deleted")

	msg, err := s.DeleteChat(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "deleted", msg)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "chatId=9", rec.query)
}

func TestUpdateChatTitle(t *testing.T) {
	s, rec := newService(t, "updated")

	_, err := s.UpdateChatTitle(context.Background(), 4, "renamed")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/chat/updateChatTitle", rec.path)
	assert.EqualValues(t, 4, rec.body["id"])
	assert.Equal(t, "renamed", rec.body["title"])
}

type countingIndicator struct{ shows, hides int }

func (c *countingIndicator) Show() { c.shows++ }
func (c *countingIndicator) Hide() { c.hides++ }
