package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"order-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrderWithItems inserts the order row and all item rows inside the
// caller's transaction. Either everything commits or nothing is visible.
func (s *Store) CreateOrderWithItems(ctx context.Context, tx *sqlx.Tx, order *models.Order, items []models.OrderItem) (*models.OrderWithItems, error) {
	orderQuery := `
		INSERT INTO orders (customer_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, customer_id, total_amount, status, created_at, updated_at`

	var created models.Order
	if err := tx.GetContext(ctx, &created, orderQuery,
		order.CustomerID, order.TotalAmount, order.Status); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, name, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, name, quantity, price, created_at, updated_at`

	createdItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		var createdItem models.OrderItem
		if err := tx.GetContext(ctx, &createdItem, itemQuery,
			created.ID, item.Name, item.Quantity, item.Price); err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		createdItems = append(createdItems, createdItem)
	}

	return &models.OrderWithItems{Order: created, Items: createdItems}, nil
}

// GetOrderByCustomer retrieves just id and status of an order owned by the
// user, returning nil when absent. Used by the status-update path.
func (s *Store) GetOrderByCustomer(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT id, status FROM orders WHERE id = $1 AND customer_id = $2", orderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderWithItems retrieves an order and its items, ownership-scoped.
func (s *Store) GetOrderWithItems(ctx context.Context, userID, orderID int64) (*models.OrderWithItems, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND customer_id = $2", orderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := s.getOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &models.OrderWithItems{Order: order, Items: items}, nil
}

// ListOrdersWithItems retrieves all of the user's orders, newest first,
// optionally filtered by exact status.
func (s *Store) ListOrdersWithItems(ctx context.Context, userID int64, status string) ([]models.OrderWithItems, error) {
	var orders []models.Order
	var err error

	if status != "" {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE customer_id = $1 AND status = $2 ORDER BY created_at DESC",
			userID, status)
	} else {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE customer_id = $1 ORDER BY created_at DESC", userID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]models.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := s.getOrderItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.OrderWithItems{Order: order, Items: items})
	}

	return result, nil
}

// CancelPendingOrder sets the status to cancelled only where the order
// belongs to the user and is still pending. The WHERE clause makes the guard
// atomic against concurrent transitions; returns rows affected (0 or 1).
func (s *Store) CancelPendingOrder(ctx context.Context, userID, orderID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND customer_id = $3 AND status = $4`,
		models.OrderStatusCancelled, orderID, userID, models.OrderStatusPending)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateOrderStatus updates the status of an order owned by the user.
// Transition legality is checked by the caller.
func (s *Store) UpdateOrderStatus(ctx context.Context, userID, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND customer_id = $3",
		status, orderID, userID)
	return err
}

func (s *Store) getOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1", orderID)
	return items, err
}
