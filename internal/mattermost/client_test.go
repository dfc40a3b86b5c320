package mattermost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazdakdev/mattermost-clickup-bot/pkg/logger"
)

func TestWSURL(t *testing.T) {
	cases := map[string]string{
		"https://chat.example.com":  "wss://chat.example.com/api/v4/websocket",
		"http://127.0.0.1:8065":     "ws://127.0.0.1:8065/api/v4/websocket",
		"https://chat.example.com/": "wss://chat.example.com/api/v4/websocket",
	}
	for base, want := range cases {
		c := NewClient(base, "token", logger.NewNop())
		assert.Equal(t, want, c.wsURL(), base)
	}
}

func TestDecodePosted(t *testing.T) {
	c := NewClient("http://chat", "token", logger.NewNop())
	c.botUserID = "bot-1"

	envelope := func(post map[string]string) []byte {
		raw, _ := json.Marshal(post)
		data, _ := json.Marshal(map[string]any{
			"event": "posted",
			"data":  map[string]string{"post": string(raw)},
		})
		return data
	}

	t.Run("user post surfaces", func(t *testing.T) {
		msg, ok := c.decodePosted(envelope(map[string]string{
			"user_id":    "user-1",
			"channel_id": "chan-1",
			"message":    "create task",
		}))
		require.True(t, ok)
		assert.Equal(t, "user-1", msg.UserID)
		assert.Equal(t, "chan-1", msg.ChannelID)
		assert.Equal(t, "create task", msg.Text)
	})

	t.Run("own posts are skipped", func(t *testing.T) {
		_, ok := c.decodePosted(envelope(map[string]string{
			"user_id":    "bot-1",
			"channel_id": "chan-1",
			"message":    "reply",
		}))
		assert.False(t, ok)
	})

	t.Run("non-posted events are skipped", func(t *testing.T) {
		data, _ := json.Marshal(map[string]any{"event": "typing"})
		_, ok := c.decodePosted(data)
		assert.False(t, ok)
	})

	t.Run("malformed payload is skipped", func(t *testing.T) {
		data, _ := json.Marshal(map[string]any{
			"event": "posted",
			"data":  map[string]string{"post": "{broken"},
		})
		_, ok := c.decodePosted(data)
		assert.False(t, ok)
	})
}

func TestPost(t *testing.T) {
	t.Run("sends channel and message", func(t *testing.T) {
		var got map[string]string
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v4/posts", r.URL.Path)
			auth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"post-1"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", logger.NewNop())
		err := c.Post(context.Background(), "chan-1", "hello")
		require.NoError(t, err)

		assert.Equal(t, "Bearer token-1", auth)
		assert.Equal(t, "chan-1", got["channel_id"])
		assert.Equal(t, "hello", got["message"])
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", logger.NewNop())
		err := c.Post(context.Background(), "chan-1", "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 403")
	})
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/users/me", r.URL.Path)
		w.Write([]byte(`{"id":"bot-1","username":"taskbot"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token-1", logger.NewNop())
	id, err := c.me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bot-1", id)
}
