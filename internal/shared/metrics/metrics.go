package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	archiveOpTotal        atomic.Uint64
	archiveOpFailedTotal  atomic.Uint64
	archiveConflictTotal  atomic.Uint64
	webhookSentTotal      atomic.Uint64
	webhookFailedTotal    atomic.Uint64
	activityDroppedTotal  atomic.Uint64
	associationsPrunedSum atomic.Uint64

	archiveOpDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000})
)

// IncArchiveOp increments the lifecycle-operation counter.
func IncArchiveOp() {
	archiveOpTotal.Add(1)
}

// IncArchiveOpFailed increments the failed lifecycle-operation counter.
func IncArchiveOpFailed() {
	archiveOpFailedTotal.Add(1)
}

// IncArchiveConflict increments the optimistic-lock conflict counter.
func IncArchiveConflict() {
	archiveConflictTotal.Add(1)
}

// IncWebhookSent increments the delivered webhook counter.
func IncWebhookSent() {
	webhookSentTotal.Add(1)
}

// IncWebhookFailed increments the failed webhook counter.
func IncWebhookFailed() {
	webhookFailedTotal.Add(1)
}

// IncActivityDropped increments the dropped activity-log counter.
func IncActivityDropped() {
	activityDroppedTotal.Add(1)
}

// AddAssociationsPruned adds to the total of association records removed by
// lifecycle transitions.
func AddAssociationsPruned(n int) {
	if n > 0 {
		associationsPrunedSum.Add(uint64(n))
	}
}

// ObserveArchiveOpDurationMs records a lifecycle-operation duration in milliseconds.
func ObserveArchiveOpDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	archiveOpDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "archive_op_total", "Total archive lifecycle operations", archiveOpTotal.Load())
	writeCounter(&buf, "archive_op_failed_total", "Total failed archive lifecycle operations", archiveOpFailedTotal.Load())
	writeCounter(&buf, "archive_conflict_total", "Total optimistic-lock conflicts", archiveConflictTotal.Load())
	writeCounter(&buf, "webhook_sent_total", "Total workflow webhooks delivered", webhookSentTotal.Load())
	writeCounter(&buf, "webhook_failed_total", "Total workflow webhooks failed after retries", webhookFailedTotal.Load())
	writeCounter(&buf, "activity_dropped_total", "Total activity log writes dropped", activityDroppedTotal.Load())
	writeCounter(&buf, "associations_pruned_total", "Total association records removed by lifecycle transitions", associationsPrunedSum.Load())
	writeHistogram(&buf, "archive_op_duration_ms", "Archive lifecycle operation duration in milliseconds", archiveOpDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
