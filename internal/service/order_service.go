package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"order-api/internal/models"
	"order-api/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// OrderEventPublisher publishes order lifecycle events. Publishing is best
// effort; a failed publish never fails the request.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error
}

// OrderService handles order business logic
type OrderService struct {
	store  OrderStore
	events OrderEventPublisher
	logger *zap.Logger
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(store OrderStore, events OrderEventPublisher) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest represents an item in an order
type OrderItemRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Price    int64  `json:"price" binding:"gte=0"`
}

// UpdateOrderStatusRequest represents a status transition payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed cancelled"`
}

// Create persists a new pending order with its items as one atomic unit. The
// total is always computed server side.
func (s *OrderService) Create(ctx context.Context, userID int64, req *CreateOrderRequest) (*models.OrderWithItems, *Error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	order := &models.Order{
		CustomerID:  userID,
		TotalAmount: calculateTotal(req.Items),
		Status:      models.OrderStatusPending,
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	var created *models.OrderWithItems
	err := s.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var txErr error
		created, txErr = s.store.CreateOrderWithItems(ctx, tx, order, items)
		return txErr
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		s.logger.Error("Failed to create order", zap.Int64("customer_id", userID), zap.Error(err))
		return nil, NewError("It was not possible to create your order. Try again", http.StatusBadRequest)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", created.Order.ID),
		zap.Int64("customer_id", userID),
		zap.Int64("total_amount", created.Order.TotalAmount))

	s.publishOrderCreated(ctx, created)

	return created, nil
}

// Get retrieves one of the caller's orders with its items.
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*models.OrderWithItems, *Error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Get")
	defer span.End()

	order, err := s.store.GetOrderWithItems(ctx, userID, orderID)
	if err != nil {
		s.logger.Error("Failed to fetch order", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, ErrInternal()
	}

	if order == nil {
		return nil, NewError("order not found", http.StatusNotFound)
	}

	return order, nil
}

// List retrieves all of the caller's orders, optionally filtered by status.
// An empty result is a valid success.
func (s *OrderService) List(ctx context.Context, userID int64, status string) ([]models.OrderWithItems, *Error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.store.ListOrdersWithItems(ctx, userID, status)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Int64("customer_id", userID), zap.Error(err))
		return nil, ErrInternal()
	}

	if orders == nil {
		orders = []models.OrderWithItems{}
	}

	return orders, nil
}

// Cancel cancels one of the caller's pending orders. Not-found, not-owned and
// not-pending all collapse into the same response on purpose.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID int64) *Error {
	ctx, span := util.StartSpan(ctx, "OrderService.Cancel")
	defer span.End()

	rows, err := s.store.CancelPendingOrder(ctx, userID, orderID)
	if err != nil {
		s.logger.Error("Failed to cancel order", zap.Int64("order_id", orderID), zap.Error(err))
		return ErrInternal()
	}

	if rows < 1 {
		s.logger.Warn("Order not found or cannot be cancelled",
			zap.Int64("order_id", orderID),
			zap.Int64("customer_id", userID))
		return NewError("order not found or cannot be cancelled.", http.StatusNotFound)
	}

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", userID))

	s.publishOrderCancelled(ctx, orderID, userID)

	return nil
}

// UpdateStatus transitions an order through the status state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID int64, status string) *Error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	order, err := s.store.GetOrderByCustomer(ctx, userID, orderID)
	if err != nil {
		s.logger.Error("Failed to fetch order", zap.Int64("order_id", orderID), zap.Error(err))
		return ErrInternal()
	}

	if order == nil {
		return NewError("order not found", http.StatusNotFound)
	}

	if !models.CanTransition(order.Status, status) {
		return NewError(
			fmt.Sprintf("cannot change order from %s to %s", order.Status, status),
			http.StatusUnprocessableEntity)
	}

	if err := s.store.UpdateOrderStatus(ctx, userID, orderID, status); err != nil {
		s.logger.Error("Failed to update order status", zap.Int64("order_id", orderID), zap.Error(err))
		return ErrInternal()
	}

	util.OrderTransitionsTotal.WithLabelValues(order.Status, status).Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", status))

	s.publishStatusChanged(ctx, orderID, userID, order.Status, status)

	return nil
}

// calculateTotal sums price*quantity over the submitted items. Client
// totals are never trusted.
func calculateTotal(items []OrderItemRequest) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

func (s *OrderService) publishOrderCreated(ctx context.Context, created *models.OrderWithItems) {
	if s.events == nil {
		return
	}

	itemData := make([]models.OrderItemData, 0, len(created.Items))
	for _, item := range created.Items {
		itemData = append(itemData, models.OrderItemData{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeOrderCreated),
		OrderID:     created.Order.ID,
		CustomerID:  created.Order.CustomerID,
		TotalAmount: created.Order.TotalAmount,
		Items:       itemData,
	}

	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID, userID int64, from, to string) {
	if s.events == nil {
		return
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:    orderID,
		CustomerID: userID,
		From:       from,
		To:         to,
	}

	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
}

func (s *OrderService) publishOrderCancelled(ctx context.Context, orderID, userID int64) {
	if s.events == nil {
		return
	}

	event := &models.OrderCancelledEvent{
		BaseEvent:  newBaseEvent(models.EventTypeOrderCancelled),
		OrderID:    orderID,
		CustomerID: userID,
	}

	if err := s.events.PublishOrderCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
