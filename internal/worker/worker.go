package worker

import (
	"context"

	"order-api/internal/broker"
	"order-api/internal/models"
	"order-api/internal/util"

	"go.uber.org/zap"
)

// EventRecorder tracks which events have already been handled.
type EventRecorder interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// AuditWorker consumes order lifecycle events and writes an audit trail.
// Events are deduplicated through the processed_events table, so replays
// after a consumer-group rebalance are harmless.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	recorder     EventRecorder
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, recorder EventRecorder) *AuditWorker {
	w := &AuditWorker{
		consumer: consumer,
		recorder: recorder,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	eventHandler.OnOrderCancelled(w.handleOrderCancelled)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

func (w *AuditWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	seen, err := w.seen(ctx, event.BaseEvent)
	if err != nil || seen {
		return err
	}

	w.logger.Info("Audit: order created",
		zap.Int64("order_id", event.OrderID),
		zap.Int64("customer_id", event.CustomerID),
		zap.Int64("total_amount", event.TotalAmount),
		zap.Int("item_count", len(event.Items)))

	util.OrderEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	return w.recorder.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *AuditWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	seen, err := w.seen(ctx, event.BaseEvent)
	if err != nil || seen {
		return err
	}

	w.logger.Info("Audit: order status changed",
		zap.Int64("order_id", event.OrderID),
		zap.String("from", event.From),
		zap.String("to", event.To))

	util.OrderEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	return w.recorder.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *AuditWorker) handleOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	seen, err := w.seen(ctx, event.BaseEvent)
	if err != nil || seen {
		return err
	}

	w.logger.Info("Audit: order cancelled",
		zap.Int64("order_id", event.OrderID),
		zap.Int64("customer_id", event.CustomerID))

	util.OrderEventsConsumedTotal.WithLabelValues(event.EventType).Inc()
	return w.recorder.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *AuditWorker) seen(ctx context.Context, event models.BaseEvent) (bool, error) {
	processed, err := w.recorder.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		w.logger.Error("Failed to check processed event", zap.String("event_id", event.EventID), zap.Error(err))
		return false, err
	}
	if processed {
		w.logger.Debug("Skipping already processed event", zap.String("event_id", event.EventID))
	}
	return processed, nil
}
