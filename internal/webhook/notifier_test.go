package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sandra-backend/internal/queue"
)

func testMessage() queue.Message {
	return queue.Message{
		Event:      "job.archived",
		CompanyID:  "acme",
		Payload:    map[string]any{"jobId": "job-1"},
		EnqueuedAt: "2026-01-01T00:00:00Z",
		Version:    1,
	}
}

func TestDeliverSignsPayload(t *testing.T) {
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Sandra-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	n := NewNotifier(srv.URL, "secret", nil)
	if err := n.Deliver(context.Background(), testMessage()); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Fatalf("signature mismatch: got %q, want %q", gotSig, want)
	}
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	n := NewNotifier(srv.URL, "", nil)
	if err := n.Deliver(context.Background(), testMessage()); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestDeliverDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	n := NewNotifier(srv.URL, "", nil)
	if err := n.Deliver(context.Background(), testMessage()); err == nil {
		t.Fatalf("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("client errors must not retry, got %d attempts", got)
	}
}

func TestDeliverGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	n := NewNotifier(srv.URL, "", nil)
	if err := n.Deliver(context.Background(), testMessage()); err == nil {
		t.Fatalf("expected error")
	}
	if got := calls.Load(); got != int32(maxAttempts) {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, got)
	}
}

type recordingQueue struct {
	sent []queue.Message
}

func (q *recordingQueue) Send(ctx context.Context, msg queue.Message) error {
	q.sent = append(q.sent, msg)
	return nil
}

func TestNotifyPrefersQueue(t *testing.T) {
	q := &recordingQueue{}
	n := NewNotifier("http://unused.invalid", "", q)

	n.Notify(context.Background(), "candidate.restored", "acme", map[string]any{"candidateId": "cand-1"})

	if len(q.sent) != 1 {
		t.Fatalf("expected 1 enqueued message, got %d", len(q.sent))
	}
	msg := q.sent[0]
	if msg.Event != "candidate.restored" || msg.CompanyID != "acme" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Version != 1 || msg.EnqueuedAt == "" {
		t.Fatalf("expected versioned envelope with timestamp, got %+v", msg)
	}
}

func TestNotifyNilReceiverIsNoOp(t *testing.T) {
	var n *Notifier
	n.Notify(context.Background(), "job.closed", "acme", nil)

	unconfigured := NewNotifier("", "", nil)
	unconfigured.Notify(context.Background(), "job.closed", "acme", nil)
}
