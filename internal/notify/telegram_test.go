package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsExpectedPayload(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bottoken123/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBaseURL("token123", "-100200300", server.URL)
	err := n.Send(context.Background(), "proxy detected")
	require.NoError(t, err)

	assert.Equal(t, "-100200300", got.ChatID)
	assert.Equal(t, "proxy detected", got.Text)
	assert.Equal(t, "MarkdownV2", got.ParseMode)
}

func TestSendReturnsErrorOnAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBaseURL("token123", "bad-chat", server.URL)
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
