// Package services wires the pure ledger math to storage and change
// notifications.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"lapak/internal/amqp"
	"lapak/internal/core"
)

// Store is the persistence contract: three append/delete collections whose
// snapshots come back ordered by timestamp descending.
type Store interface {
	CreateSale(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	Transactions(ctx context.Context) ([]core.Transaction, error)
	CreateWithdrawal(ctx context.Context, stream core.Stream, w core.WithdrawalEvent) (core.WithdrawalEvent, error)
	DeleteWithdrawal(ctx context.Context, stream core.Stream, id int64) error
	Withdrawals(ctx context.Context, stream core.Stream) ([]core.WithdrawalEvent, error)
	Close() error
}

// Notifier publishes collection change events. Nil-safe at the service
// level: without a notifier writes still succeed, dashboards just poll.
type Notifier interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// SaleLine is one entered line item: a catalog reference and a quantity.
type SaleLine struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

// SaleInput is one buyer action; all its lines share a GroupID and either
// persist together or not at all.
type SaleInput struct {
	BuyerUsername string     `json:"buyerUsername"`
	Date          string     `json:"date"`
	Notes         string     `json:"notes"`
	Lines         []SaleLine `json:"lines"`
}

// Snapshot is the full record state summaries and exports are computed from.
type Snapshot struct {
	Transactions       []core.Transaction
	BlueWithdrawals    []core.WithdrawalEvent
	CempakaWithdrawals []core.WithdrawalEvent
}

var ErrNoLines = errors.New("sale has no line items")

// IsValidationError reports whether err stems from bad caller input rather
// than a persistence failure, so handlers can answer 422 instead of 500.
func IsValidationError(err error) bool {
	for _, target := range []error{
		core.ErrEmptyBuyer, core.ErrInvalidQuantity, core.ErrUnknownProduct,
		core.ErrInvalidDate, core.ErrInvalidAmount, core.ErrInvalidWithdrawalType,
		ErrNoLines,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// LedgerService orchestrates validate, compute, persist and notify. It holds
// no derived state; every read recomputes from a fresh snapshot.
type LedgerService struct {
	store    Store
	notifier Notifier
	catalog  *core.Catalog
	rates    core.Rates
	now      func() time.Time
}

func NewLedgerService(store Store, notifier Notifier, catalog *core.Catalog, rates core.Rates) *LedgerService {
	return &LedgerService{
		store:    store,
		notifier: notifier,
		catalog:  catalog,
		rates:    rates,
		now:      time.Now,
	}
}

// CreateSale resolves every line against the catalog, computes the full
// breakdown and persists the batch atomically. Validation failures abort
// before any persistence call.
func (s *LedgerService) CreateSale(ctx context.Context, in SaleInput) ([]core.Transaction, error) {
	if strings.TrimSpace(in.BuyerUsername) == "" {
		return nil, core.ErrEmptyBuyer
	}
	if err := core.ValidateDate(in.Date); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, ErrNoLines
	}

	groupID := uuid.NewString()
	ts := s.now().UnixMilli()

	txs := make([]core.Transaction, len(in.Lines))
	for i, line := range in.Lines {
		product, err := s.catalog.Lookup(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		breakdown, err := core.Compute(product, line.Quantity, s.rates)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		txs[i] = core.Transaction{
			GroupID:       groupID,
			BuyerUsername: strings.TrimSpace(in.BuyerUsername),
			Date:          in.Date,
			Notes:         strings.TrimSpace(in.Notes),
			ProductID:     product.ID,
			ProductCode:   product.Code,
			ProductName:   product.Name,
			Breakdown:     breakdown,
			Timestamp:     ts,
		}
		if err := txs[i].Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}

	saved, err := s.store.CreateSale(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("persist sale: %w", err)
	}

	s.notify(ctx, amqp.NewChangeMessage(amqp.CollectionTransactions, amqp.ActionCreated, saved[0].ID, groupID))
	return saved, nil
}

// DeleteSale removes a single sale line by id.
func (s *LedgerService) DeleteSale(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	s.notify(ctx, amqp.NewChangeMessage(amqp.CollectionTransactions, amqp.ActionDeleted, id, ""))
	return nil
}

// CreateWithdrawal records a payout on a partner's stream. Blue's stream
// carries no type; Cempaka's must be tagged capital or profit.
func (s *LedgerService) CreateWithdrawal(ctx context.Context, stream core.Stream, w core.WithdrawalEvent) (core.WithdrawalEvent, error) {
	if !stream.Valid() {
		return core.WithdrawalEvent{}, fmt.Errorf("unknown withdrawal stream %q", stream)
	}
	switch stream {
	case core.StreamBlue:
		w.Type = ""
	case core.StreamCempaka:
		if w.Type != core.WithdrawalCapital && w.Type != core.WithdrawalProfit {
			return core.WithdrawalEvent{}, core.ErrInvalidWithdrawalType
		}
	}
	if err := w.Validate(); err != nil {
		return core.WithdrawalEvent{}, err
	}
	w.Timestamp = s.now().UnixMilli()

	saved, err := s.store.CreateWithdrawal(ctx, stream, w)
	if err != nil {
		return core.WithdrawalEvent{}, fmt.Errorf("persist withdrawal: %w", err)
	}

	s.notify(ctx, amqp.NewChangeMessage(withdrawalCollection(stream), amqp.ActionCreated, saved.ID, ""))
	return saved, nil
}

// DeleteWithdrawal removes one event from a partner's stream.
func (s *LedgerService) DeleteWithdrawal(ctx context.Context, stream core.Stream, id int64) error {
	if !stream.Valid() {
		return fmt.Errorf("unknown withdrawal stream %q", stream)
	}
	if err := s.store.DeleteWithdrawal(ctx, stream, id); err != nil {
		return fmt.Errorf("delete withdrawal: %w", err)
	}
	s.notify(ctx, amqp.NewChangeMessage(withdrawalCollection(stream), amqp.ActionDeleted, id, ""))
	return nil
}

// Withdrawals lists one partner's stream, newest first, without touching
// the other collections.
func (s *LedgerService) Withdrawals(ctx context.Context, stream core.Stream) ([]core.WithdrawalEvent, error) {
	if !stream.Valid() {
		return nil, fmt.Errorf("unknown withdrawal stream %q", stream)
	}
	ws, err := s.store.Withdrawals(ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("load withdrawals: %w", err)
	}
	return ws, nil
}

// Snapshot reads all three collections.
func (s *LedgerService) Snapshot(ctx context.Context) (Snapshot, error) {
	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	blue, err := s.store.Withdrawals(ctx, core.StreamBlue)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load blue withdrawals: %w", err)
	}
	cempaka, err := s.store.Withdrawals(ctx, core.StreamCempaka)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load cempaka withdrawals: %w", err)
	}
	return Snapshot{Transactions: txs, BlueWithdrawals: blue, CempakaWithdrawals: cempaka}, nil
}

// Summary recomputes the balance rollup from a fresh snapshot.
func (s *LedgerService) Summary(ctx context.Context) (core.BalanceSummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.BalanceSummary{}, err
	}
	return core.Summarize(snap.Transactions, snap.BlueWithdrawals, snap.CempakaWithdrawals), nil
}

// DailyReport buckets the date-bounded transaction set per day.
func (s *LedgerService) DailyReport(ctx context.Context, start, end string) ([]core.GroupSums, error) {
	txs, err := s.rangedTransactions(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return core.GroupByDay(txs), nil
}

// ProductReport buckets the date-bounded transaction set per product.
func (s *LedgerService) ProductReport(ctx context.Context, start, end string) ([]core.GroupSums, error) {
	txs, err := s.rangedTransactions(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return core.GroupByProduct(txs), nil
}

// Months lists the distinct months with recorded sales, newest first.
func (s *LedgerService) Months(ctx context.Context) ([]string, error) {
	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.MonthKeys(txs), nil
}

// RangedTransactions returns the snapshot filtered to [start, end].
func (s *LedgerService) RangedTransactions(ctx context.Context, start, end string) ([]core.Transaction, error) {
	return s.rangedTransactions(ctx, start, end)
}

func (s *LedgerService) rangedTransactions(ctx context.Context, start, end string) ([]core.Transaction, error) {
	if start != "" {
		if err := core.ValidateDate(start); err != nil {
			return nil, fmt.Errorf("start bound: %w", err)
		}
	}
	if end != "" {
		if err := core.ValidateDate(end); err != nil {
			return nil, fmt.Errorf("end bound: %w", err)
		}
	}
	txs, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.FilterByRange(txs, start, end), nil
}

// Catalog lists sellable products.
func (s *LedgerService) Catalog() []core.Product {
	return s.catalog.Products()
}

// Rates exposes the configured fee and split.
func (s *LedgerService) Rates() core.Rates {
	return s.rates
}

// notify is fire-and-forget: a lost event only delays a dashboard refresh,
// so publish failures are logged and swallowed.
func (s *LedgerService) notify(ctx context.Context, msg *amqp.ChangeMessage) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"error", err,
			"collection", msg.Collection,
			"action", msg.Action,
			"id", msg.ID)
	}
}

// Close releases the store and notifier.
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.notifier.(interface{ Close() error }); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}

func withdrawalCollection(stream core.Stream) string {
	if stream == core.StreamBlue {
		return amqp.CollectionBlueWithdrawals
	}
	return amqp.CollectionCempakaWithdrawals
}
