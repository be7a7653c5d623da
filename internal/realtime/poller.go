package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/ritee123/loginsight/internal/analytics"
)

// Poller periodically asks the engine for fresh alerts and pushes ones
// the hub has not broadcast yet.
type Poller struct {
	svc      *analytics.Service
	hub      *Hub
	interval time.Duration
	logger   *slog.Logger

	seen map[string]time.Time // alert id -> when first broadcast
}

// seenRetention bounds the dedup map; the engine only serves alerts from
// the trailing day, so anything older can be forgotten.
const seenRetention = 48 * time.Hour

// NewPoller creates an alert poller feeding the hub.
func NewPoller(svc *analytics.Service, hub *Hub, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		svc:      svc,
		hub:      hub,
		interval: interval,
		logger:   logger,
		seen:     make(map[string]time.Time),
	}
}

// Run polls until the context is cancelled. Poll failures are logged and
// retried on the next tick; the push channel is advisory.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("alert poller started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("alert poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	alerts, err := p.svc.GetSecurityAlerts(ctx, "")
	if err != nil {
		p.logger.Warn("alert poll failed", "error", err)
		return
	}

	now := time.Now()

	// Alerts arrive newest-first; broadcast oldest-first so clients see
	// them in time order.
	for i := len(alerts) - 1; i >= 0; i-- {
		alert := alerts[i]
		if _, ok := p.seen[alert.ID]; ok {
			continue
		}
		p.seen[alert.ID] = now
		p.hub.BroadcastAlert(alert)
	}

	for id, at := range p.seen {
		if now.Sub(at) > seenRetention {
			delete(p.seen, id)
		}
	}
}
