package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of the server counters, shaped for
// the admin status endpoint.
type Stats struct {
	RequestsServed   uint64  `json:"requests_served"`
	RequestsDenied   uint64  `json:"requests_denied"`
	AuthFailures     uint64  `json:"auth_failures"`
	WebhooksRejected uint64  `json:"webhooks_rejected"`
	InboundAccepted  uint64  `json:"inbound_accepted"`
	SpamFlagged      uint64  `json:"spam_flagged"`
	OutboundSent     uint64  `json:"outbound_sent"`
	RequestRate      float64 `json:"request_rate"` // requests per second since the last tick

	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
}

// Monitor aggregates server telemetry. Counters are atomic so the hot
// path never takes the snapshot lock.
type Monitor struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats Stats

	requestsServed   uint64
	requestsDenied   uint64
	authFailures     uint64
	webhooksRejected uint64
	inboundAccepted  uint64
	spamFlagged      uint64
	outboundSent     uint64

	windowRequests uint64
	lastCheck      time.Time
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log, lastCheck: time.Now()}
}

func (m *Monitor) IncrRequestsServed() {
	atomic.AddUint64(&m.requestsServed, 1)
	atomic.AddUint64(&m.windowRequests, 1)
}

func (m *Monitor) IncrRequestsDenied() {
	atomic.AddUint64(&m.requestsDenied, 1)
}

func (m *Monitor) IncrAuthFailures() {
	atomic.AddUint64(&m.authFailures, 1)
}

func (m *Monitor) IncrWebhooksRejected() {
	atomic.AddUint64(&m.webhooksRejected, 1)
}

func (m *Monitor) IncrInboundAccepted() {
	atomic.AddUint64(&m.inboundAccepted, 1)
}

func (m *Monitor) IncrSpamFlagged() {
	atomic.AddUint64(&m.spamFlagged, 1)
}

func (m *Monitor) IncrOutboundSent() {
	atomic.AddUint64(&m.outboundSent, 1)
}

// Listen refreshes the snapshot once per second until the context is
// cancelled. Run it in its own goroutine.
func (m *Monitor) Listen(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Monitoring stopped")
			return
		case <-ticker.C:
			m.updateStats()
		}
	}
}

func (m *Monitor) updateStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	duration := now.Sub(m.lastCheck).Seconds()
	if duration > 0 {
		window := atomic.SwapUint64(&m.windowRequests, 0)
		m.latestStats.RequestRate = float64(window) / duration
	}
	m.lastCheck = now

	m.latestStats.RequestsServed = atomic.LoadUint64(&m.requestsServed)
	m.latestStats.RequestsDenied = atomic.LoadUint64(&m.requestsDenied)
	m.latestStats.AuthFailures = atomic.LoadUint64(&m.authFailures)
	m.latestStats.WebhooksRejected = atomic.LoadUint64(&m.webhooksRejected)
	m.latestStats.InboundAccepted = atomic.LoadUint64(&m.inboundAccepted)
	m.latestStats.SpamFlagged = atomic.LoadUint64(&m.spamFlagged)
	m.latestStats.OutboundSent = atomic.LoadUint64(&m.outboundSent)

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.latestStats.AllocMemMb = ms.Alloc / 1024 / 1024
	m.latestStats.NumGC = ms.NumGC

	m.log.Debug("stats updated",
		"requests_served", m.latestStats.RequestsServed,
		"request_rate", m.latestStats.RequestRate,
		"spam_flagged", m.latestStats.SpamFlagged,
		"mem_mb", m.latestStats.AllocMemMb,
	)
}

// GetLatest returns the most recent snapshot; counters are re-read so
// the figures never lag behind the last tick.
func (m *Monitor) GetLatest() Stats {
	m.mu.RLock()
	stats := m.latestStats
	m.mu.RUnlock()

	stats.RequestsServed = atomic.LoadUint64(&m.requestsServed)
	stats.RequestsDenied = atomic.LoadUint64(&m.requestsDenied)
	stats.AuthFailures = atomic.LoadUint64(&m.authFailures)
	stats.WebhooksRejected = atomic.LoadUint64(&m.webhooksRejected)
	stats.InboundAccepted = atomic.LoadUint64(&m.inboundAccepted)
	stats.SpamFlagged = atomic.LoadUint64(&m.spamFlagged)
	stats.OutboundSent = atomic.LoadUint64(&m.outboundSent)
	return stats
}
