package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"sandra-backend/internal/queue"
	"sandra-backend/internal/shared/metrics"
	"sandra-backend/internal/shared/telemetry"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
	deliverTimeout = 10 * time.Second
	signatureHdr   = "X-Sandra-Signature"
)

// Notifier pushes lifecycle events to the configured workflow automation
// endpoint. With a queue client attached, events are enqueued for the
// delivery worker instead of posted inline. Notify never blocks the caller
// on delivery.
type Notifier struct {
	URL    string
	Secret string
	Client *http.Client
	Queue  queue.Client
}

// NewNotifier constructs a Notifier. q may be nil for direct delivery.
func NewNotifier(url, secret string, q queue.Client) *Notifier {
	return &Notifier{
		URL:    url,
		Secret: secret,
		Client: &http.Client{Timeout: deliverTimeout},
		Queue:  q,
	}
}

// Notify announces the event. Fire-and-forget: failures are counted and
// logged, never returned.
func (n *Notifier) Notify(ctx context.Context, event, companyID string, payload map[string]any) {
	if n == nil || (n.URL == "" && n.Queue == nil) {
		return
	}

	msg := queue.Message{
		Event:      event,
		CompanyID:  companyID,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}

	if n.Queue != nil {
		if err := n.Queue.Send(ctx, msg); err != nil {
			metrics.IncWebhookFailed()
			telemetry.Warn("webhook.enqueue_failed", map[string]any{
				"event":      event,
				"company_id": companyID,
				"error":      err.Error(),
			})
			return
		}
		metrics.IncWebhookSent()
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := n.Deliver(ctx, msg); err != nil {
			metrics.IncWebhookFailed()
			telemetry.Warn("webhook.delivery_failed", map[string]any{
				"event":      event,
				"company_id": companyID,
				"error":      err.Error(),
			})
			return
		}
		metrics.IncWebhookSent()
	}()
}

// Deliver posts the event with bounded retry. Server-side and transport
// failures retry with doubling backoff; client errors do not.
func (n *Notifier) Deliver(ctx context.Context, msg queue.Message) error {
	body, err := queue.EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = n.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || attempt == maxAttempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return lastErr
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.Secret != "" {
		req.Header.Set(signatureHdr, sign(n.Secret, body))
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return transientError{err}
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err = fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return transientError{err}
	}
	return err
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func retryable(err error) bool {
	_, ok := err.(transientError)
	return ok
}
