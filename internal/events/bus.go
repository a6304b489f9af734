// internal/events/bus.go
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/metrics"
)

// Publisher hands domain events to the notification collaborator.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event)
}

// Handler consumes a published event.
type Handler func(ctx context.Context, event domain.Event)

// Bus is an in-process, synchronous fan-out Publisher.
// A panicking handler is logged and does not stop delivery to the others.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewBus creates an empty Bus.
func NewBus(logger *slog.Logger, m *metrics.Metrics) *Bus {
	return &Bus{logger: logger, metrics: m}
}

// Subscribe registers h for every subsequent event.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers event to all subscribers in registration order.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	b.metrics.EventPublished(string(event.Type()))
	for _, h := range handlers {
		b.deliver(ctx, h, event)
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				"event_type", event.Type(),
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()
	h(ctx, event)
}

// LogHandler writes every event to logger. It stands in for the notification
// dispatcher until a delivery channel is configured.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event domain.Event) {
		switch e := event.(type) {
		case domain.LoanDefaultedEvent:
			logger.InfoContext(ctx, "Notification: loan defaulted",
				"loan_id", e.LoanID,
				"borrower_id", e.BorrowerID,
				"group_id", e.GroupID,
				"amount", e.Amount.StringFixed(2),
				"due_date", e.DueDate,
			)
		case domain.GroupUpgradedEvent:
			logger.InfoContext(ctx, "Notification: group upgraded",
				"group_id", e.GroupID,
				"group_name", e.GroupName,
				"user_id", e.UserID,
				"from_tier", e.FromTier,
				"to_tier", e.ToTier,
			)
		default:
			logger.InfoContext(ctx, "Notification", "event_type", event.Type())
		}
	}
}
