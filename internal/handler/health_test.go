package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker bool

func (s stubChecker) IsConnected() bool { return bool(s) }

func get(t *testing.T, fn http.HandlerFunc) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	fn(rec, req)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(stubChecker(false), nil, false)

	code, body := get(t, h.Health)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mattermost-clickup-bot", body["service"])
}

func TestReady(t *testing.T) {
	t.Run("ready when everything is up", func(t *testing.T) {
		h := NewHealthHandler(stubChecker(true), stubChecker(true), true)

		code, body := get(t, h.Ready)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("NATS optional when not configured", func(t *testing.T) {
		h := NewHealthHandler(stubChecker(true), nil, true)

		code, _ := get(t, h.Ready)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("missing API token", func(t *testing.T) {
		h := NewHealthHandler(stubChecker(true), nil, false)

		code, body := get(t, h.Ready)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "ClickUp API token not configured", body["reason"])
	})

	t.Run("transport down", func(t *testing.T) {
		h := NewHealthHandler(stubChecker(false), nil, true)

		code, body := get(t, h.Ready)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "Mattermost not connected", body["reason"])
	})

	t.Run("NATS configured but down", func(t *testing.T) {
		h := NewHealthHandler(stubChecker(true), stubChecker(false), true)

		code, body := get(t, h.Ready)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "NATS not connected", body["reason"])
	})
}
