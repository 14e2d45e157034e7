package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Notifier is the outbound port for delivering one reminder to the user.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// LogNotifier writes reminders to the structured log. Default when no
// webhook is configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, message string) error {
	slog.InfoContext(ctx, "Reminder", "message", message)
	return nil
}

// WebhookNotifier POSTs the reminder text to a configured URL (an ntfy-style
// topic endpoint works as-is).
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
