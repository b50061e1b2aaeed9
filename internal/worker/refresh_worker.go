// Package worker recomputes the dashboard rollup whenever a record
// collection changes.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"lapak/internal/amqp"
	"lapak/internal/core"
	"lapak/internal/services"
)

// Consumer delivers change notifications to a handler until the context
// ends. The AMQP client's ConsumeChanges satisfies it.
type Consumer func(ctx context.Context, handler func(context.Context, *amqp.ChangeMessage) error) error

// RefreshWorker reacts to change notifications with a full recompute from
// the latest snapshot. No incremental state: the message only says "stale",
// the store says what is true.
type RefreshWorker struct {
	service *services.LedgerService
}

func NewRefreshWorker(service *services.LedgerService) *RefreshWorker {
	return &RefreshWorker{service: service}
}

// HandleChange processes one change notification.
func (w *RefreshWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"collection", msg.Collection,
		"action", msg.Action,
		"id", msg.ID)

	summary, err := w.service.Summary(ctx)
	if err != nil {
		return fmt.Errorf("recompute summary: %w", err)
	}

	logSummary(ctx, summary)
	return nil
}

// Run consumes change notifications and refreshes on a timer until ctx is
// cancelled or consumption fails. A consumer failure (say the broker drops
// and the delivery channel closes) is returned to the caller; waiting for
// a shutdown signal instead would leave a worker that consumes nothing.
func (w *RefreshWorker) Run(ctx context.Context, consume Consumer, refreshEvery time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := consume(gctx, w.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("consume changes: %w", err)
		}
		return nil
	})

	// Periodic refresh catches anything a dropped message skipped.
	g.Go(func() error {
		ticker := time.NewTicker(refreshEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := w.Refresh(gctx); err != nil {
					slog.ErrorContext(gctx, "Periodic refresh failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

// Refresh recomputes the rollup without a triggering message. Run on a
// timer, it catches writes whose notifications never arrived.
func (w *RefreshWorker) Refresh(ctx context.Context) error {
	summary, err := w.service.Summary(ctx)
	if err != nil {
		return fmt.Errorf("recompute summary: %w", err)
	}
	logSummary(ctx, summary)
	return nil
}

func logSummary(ctx context.Context, s core.BalanceSummary) {
	slog.InfoContext(ctx, "Balance summary refreshed",
		"total_revenue", s.TotalRevenue,
		"total_fee", s.TotalFee,
		"total_net", s.TotalNet,
		"total_cost", s.TotalCost,
		"total_profit", s.TotalProfit,
		"blue_share", s.TotalBlue,
		"cempaka_share", s.TotalCempaka,
		"capital_outstanding", s.CapitalOutstanding,
		"paid_off", s.IsPaidOff,
		"blue_remaining", s.BlueRemaining,
		"cempaka_profit_remaining", s.CempakaProfitRemaining)
}
