package service

import (
	"context"

	"order-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// UserStore is the user persistence contract consumed by the auth use cases.
// Lookups return nil without an error when no row matches.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, password string) (*models.User, error)
}

// SessionStore is the session persistence contract.
type SessionStore interface {
	CreateSession(ctx context.Context, userID int64) (*models.Session, error)
	DeleteUserSessions(ctx context.Context, userID int64) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
}

// OrderStore is the order persistence contract. Creation runs inside a
// transaction scoped by the caller through Transact.
type OrderStore interface {
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	CreateOrderWithItems(ctx context.Context, tx *sqlx.Tx, order *models.Order, items []models.OrderItem) (*models.OrderWithItems, error)
	GetOrderByCustomer(ctx context.Context, userID, orderID int64) (*models.Order, error)
	GetOrderWithItems(ctx context.Context, userID, orderID int64) (*models.OrderWithItems, error)
	ListOrdersWithItems(ctx context.Context, userID int64, status string) ([]models.OrderWithItems, error)
	CancelPendingOrder(ctx context.Context, userID, orderID int64) (int64, error)
	UpdateOrderStatus(ctx context.Context, userID, orderID int64, status string) error
}
