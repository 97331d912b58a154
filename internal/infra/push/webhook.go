package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ecoquest/quest-engine/internal/domain/quest"
)

// WebhookSink posts push messages to a collaborator webhook. The
// transport behind the webhook (FCM, APNs, etc.) is out of scope.
type WebhookSink struct {
	url        string
	httpClient *http.Client
}

// NewWebhookSink builds the sink. An empty URL yields a disabled sink
// that drops messages.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url: strings.TrimSpace(url),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// SendPush implements quest.PushSink.
func (s *WebhookSink) SendPush(ctx context.Context, msg quest.PushMessage) error {
	if s.url == "" {
		return nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("push rejected: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// LogSink is the dev fallback when no webhook is configured: it just
// logs what would have been pushed.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink builds the logging sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "push.logsink")}
}

// SendPush implements quest.PushSink.
func (s *LogSink) SendPush(_ context.Context, msg quest.PushMessage) error {
	s.logger.Info("push notification", "userId", msg.UserID, "questId", msg.QuestID, "urgency", msg.Urgency, "title", msg.Title)
	return nil
}

var (
	_ quest.PushSink = (*WebhookSink)(nil)
	_ quest.PushSink = (*LogSink)(nil)
)
