package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lapak/internal/amqp"
	"lapak/internal/core"
	"lapak/internal/services"
	"lapak/internal/storage/memory"
)

func newTestWorker() *RefreshWorker {
	svc := services.NewLedgerService(memory.New(), nil, core.NewCatalog(core.DefaultProducts()), core.DefaultRates)
	return NewRefreshWorker(svc)
}

func TestHandleChangeRecomputesSummary(t *testing.T) {
	w := newTestWorker()
	msg := amqp.NewChangeMessage(amqp.CollectionTransactions, amqp.ActionCreated, 1, "g1")
	require.NoError(t, w.HandleChange(context.Background(), msg))
}

func TestRunReturnsOnFatalConsumerError(t *testing.T) {
	w := newTestWorker()

	fatal := errors.New("message channel closed")
	consume := func(ctx context.Context, _ func(context.Context, *amqp.ChangeMessage) error) error {
		return fatal
	}

	result := make(chan error, 1)
	go func() {
		result <- w.Run(context.Background(), consume, time.Hour)
	}()

	// A dead consumer must surface promptly, not idle until a signal.
	select {
	case err := <-result:
		require.ErrorIs(t, err, fatal)
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked after the consumer failed")
	}
}

func TestRunStopsCleanlyOnCancel(t *testing.T) {
	w := newTestWorker()

	consume := func(ctx context.Context, _ func(context.Context, *amqp.ChangeMessage) error) error {
		<-ctx.Done()
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- w.Run(ctx, consume, time.Hour)
	}()

	cancel()
	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked after cancel")
	}
}
