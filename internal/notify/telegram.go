// Package notify announces detection results over Telegram.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier posts sendMessage requests to the Telegram Bot API.
// It has no dependency on proxydetect or action — callers format their
// own text and hand it to Send, keeping this package reusable for any
// plain-text alert, not just proxy detections.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramNotifier returns a notifier bound to a single bot/chat
// pair, matching MessageBuilder's bot_token/chat_id fields.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramNotifierWithBaseURL is NewTelegramNotifier with an
// overridable API base, so tests can point at an httptest server
// instead of the real Telegram API.
func NewTelegramNotifierWithBaseURL(botToken, chatID, baseURL string) *TelegramNotifier {
	n := NewTelegramNotifier(botToken, chatID)
	n.baseURL = baseURL
	return n
}

type sendMessageRequest struct {
	ChatID              string `json:"chat_id"`
	Text                string `json:"text"`
	ParseMode           string `json:"parse_mode,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts text to the configured chat using Markdown formatting,
// mirroring MessageBuilder's default parse_mode of "MarkdownV2".
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		return fmt.Errorf("notify: marshal telegram request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, url.PathEscape(n.botToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: telegram request: %w", err)
	}
	defer resp.Body.Close()

	var out sendMessageResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return fmt.Errorf("notify: decode telegram response: %w", decodeErr)
	}
	if !out.OK {
		return fmt.Errorf("notify: telegram API error: %s", out.Description)
	}
	return nil
}
