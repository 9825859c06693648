package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/wildlifemlxy/shb-survey-sub004/config"
	"github.com/wildlifemlxy/shb-survey-sub004/models"
)

const defaultTelegramAPIDomain = "https://api.telegram.org"

// Sender delivers one payload to one recipient. Implementations own the
// transport; the dispatcher only sees this interface.
type Sender interface {
	SendMessage(ctx context.Context, recipientID string, payload models.NotificationPayload) error
}

// TelegramClient sends messages through the Telegram Bot API, one HTTP POST
// per recipient.
type TelegramClient struct {
	cfg    config.TelegramConfig
	client *http.Client
}

func NewTelegramClient(cfg config.TelegramConfig) *TelegramClient {
	if cfg.APIDomain == "" {
		cfg.APIDomain = defaultTelegramAPIDomain
	}
	return &TelegramClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.SendTimeout,
		},
	}
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type telegramSendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts one sendMessage call for the recipient's chat id
func (c *TelegramClient) SendMessage(ctx context.Context, recipientID string, payload models.NotificationPayload) error {
	if c.cfg.BotToken == "" {
		return fmt.Errorf("telegram bot token not configured")
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.cfg.APIDomain, c.cfg.BotToken)
	reqBody := telegramSendRequest{
		ChatID:    recipientID,
		Text:      payload.Text,
		ParseMode: payload.ParseMode,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp telegramSendResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !apiResp.OK {
		return fmt.Errorf("telegram sendMessage failed: http status %d: %s", resp.StatusCode, apiResp.Description)
	}
	return nil
}

// MockSender records messages instead of sending them. Used in mock transport
// mode and in tests.
type MockSender struct {
	mu   sync.Mutex
	Sent []MockSentMessage
}

// MockSentMessage is one recorded delivery
type MockSentMessage struct {
	RecipientID string
	Payload     models.NotificationPayload
}

func NewMockSender() *MockSender {
	return &MockSender{Sent: make([]MockSentMessage, 0)}
}

// SendMessage records the message
func (m *MockSender) SendMessage(ctx context.Context, recipientID string, payload models.NotificationPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, MockSentMessage{RecipientID: recipientID, Payload: payload})
	return nil
}

// SentMessages returns a copy of everything recorded so far
func (m *MockSender) SentMessages() []MockSentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockSentMessage, len(m.Sent))
	copy(out, m.Sent)
	return out
}
