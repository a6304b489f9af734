// internal/events/bus_test.go
package events

import (
	"bytes"
	"context"
	"testing"
	"time"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := util.NewLogger(&logs, util.LogOptions{Level: "debug"})

	t.Run("FansOutInOrder", func(t *testing.T) {
		bus := NewBus(logger, nil)
		first, second := NewRecorder(), NewRecorder()
		var order []string
		bus.Subscribe(func(ctx context.Context, e domain.Event) { order = append(order, "first"); first.Publish(ctx, e) })
		bus.Subscribe(func(ctx context.Context, e domain.Event) { order = append(order, "second"); second.Publish(ctx, e) })

		bus.Publish(ctx, domain.GroupUpgradedEvent{GroupID: "g1", FromTier: domain.TierOne, ToTier: domain.TierTwo})

		assert.Equal(t, []string{"first", "second"}, order)
		require.Len(t, first.Events(), 1)
		require.Len(t, second.Events(), 1)
		assert.Equal(t, domain.EventGroupUpgraded, first.Events()[0].Type())
	})

	t.Run("PanickingHandlerDoesNotStopDelivery", func(t *testing.T) {
		bus := NewBus(logger, nil)
		rec := NewRecorder()
		bus.Subscribe(func(context.Context, domain.Event) { panic("smtp down") })
		bus.Subscribe(rec.Publish)

		assert.NotPanics(t, func() {
			bus.Publish(ctx, domain.LoanDefaultedEvent{LoanID: "l1"})
		})
		assert.Len(t, rec.OfType(domain.EventLoanDefaulted), 1)
		assert.Contains(t, logs.String(), "Event handler panicked")
	})

	t.Run("LogHandler", func(t *testing.T) {
		logs.Reset()
		bus := NewBus(logger, nil)
		bus.Subscribe(LogHandler(logger))
		bus.Publish(ctx, domain.LoanDefaultedEvent{
			LoanID:     "l1",
			BorrowerID: "u1",
			Amount:     decimal.RequireFromString("250.5"),
			DueDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.Contains(t, logs.String(), "loan defaulted")
		assert.Contains(t, logs.String(), "250.50")
	})
}
