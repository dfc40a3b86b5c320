// Package mattermost implements the chat transport: a small REST client
// for posting replies and a websocket listener for incoming posts.
package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/logger"
)

// Handler consumes one inbound message and returns the replies to post.
type Handler func(ctx context.Context, msg model.InboundMessage) []string

// Client talks to a Mattermost server over REST and websocket.
type Client struct {
	baseURL   string
	token     string
	http      *http.Client
	logger    *logger.Logger
	botUserID string
	connected atomic.Bool
}

// NewClient creates a Mattermost client for the given server URL and bot token.
func NewClient(baseURL, token string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log,
	}
}

// IsConnected reports whether the websocket event loop is currently attached.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// me resolves the bot's own user ID so its posts can be skipped.
func (c *Client) me(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v4/users/me", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to resolve bot identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("unexpected response format: %w", err)
	}
	return user.ID, nil
}

// Post creates a post in the given channel.
func (c *Client) Post(ctx context.Context, channelID, message string) error {
	payload, err := json.Marshal(map[string]string{
		"channel_id": channelID,
		"message":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v4/posts", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d creating post", resp.StatusCode)
	}
	return nil
}

// Listen connects to the event websocket and invokes handler for every
// non-bot post. It reconnects with backoff until ctx is cancelled.
func (c *Client) Listen(ctx context.Context, handler Handler) error {
	botID, err := c.me(ctx)
	if err != nil {
		return err
	}
	c.botUserID = botID
	c.logger.Info("resolved bot identity", zap.String("bot_user_id", botID))

	backoff := time.Second
	for {
		err := c.listenOnce(ctx, handler)
		c.connected.Store(false)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("websocket disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, handler Handler) error {
	conn, _, err := websocket.Dial(ctx, c.wsURL(), nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	// Reports and long task listings exceed the default read cap.
	conn.SetReadLimit(1 << 20)

	if err := c.authenticate(ctx, conn); err != nil {
		return err
	}
	c.connected.Store(true)
	c.logger.Info("websocket connected")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		msg, ok := c.decodePosted(data)
		if !ok {
			continue
		}

		replies := handler(ctx, msg)
		for _, reply := range replies {
			if err := c.Post(ctx, msg.ChannelID, reply); err != nil {
				c.logger.Error("failed to post reply",
					zap.String("channel_id", msg.ChannelID),
					zap.Error(err))
			}
		}
	}
}

func (c *Client) authenticate(ctx context.Context, conn *websocket.Conn) error {
	challenge, err := json.Marshal(map[string]any{
		"seq":    1,
		"action": "authentication_challenge",
		"data":   map[string]string{"token": c.token},
	})
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, challenge); err != nil {
		return fmt.Errorf("ws auth: %w", err)
	}
	return nil
}

// wsEvent is the envelope Mattermost wraps websocket events in. The post
// itself arrives as a JSON string inside data.
type wsEvent struct {
	Event string `json:"event"`
	Data  struct {
		Post string `json:"post"`
	} `json:"data"`
}

type wsPost struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

func (c *Client) decodePosted(data []byte) (model.InboundMessage, bool) {
	var event wsEvent
	if err := json.Unmarshal(data, &event); err != nil || event.Event != "posted" {
		return model.InboundMessage{}, false
	}

	var post wsPost
	if err := json.Unmarshal([]byte(event.Data.Post), &post); err != nil {
		c.logger.Warn("malformed post payload", zap.Error(err))
		return model.InboundMessage{}, false
	}
	if post.UserID == "" || post.UserID == c.botUserID {
		return model.InboundMessage{}, false
	}

	return model.InboundMessage{
		UserID:    post.UserID,
		ChannelID: post.ChannelID,
		Text:      post.Message,
	}, true
}

func (c *Client) wsURL() string {
	url := c.baseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/api/v4/websocket"
}
