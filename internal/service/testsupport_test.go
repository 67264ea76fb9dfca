package service

import (
	"context"
	"errors"
	"time"

	"order-api/internal/models"
	"order-api/internal/util"

	"github.com/jmoiron/sqlx"
)

// fakeUserStore keeps users in memory, keyed by email.
type fakeUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserStore) UserEmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, password string) (*models.User, error) {
	hash, err := util.HashPassword(password, 4)
	if err != nil {
		return nil, err
	}

	f.nextID++
	f.users[email] = &models.User{ID: f.nextID, Name: name, Email: email, Password: hash}

	return &models.User{ID: f.nextID, Name: name, Email: email}, nil
}

// fakeSessionIssuer records issued tokens and revocations per user.
type fakeSessionIssuer struct {
	issued   map[int64][]string
	revoked  map[int64]int
	issueErr error
}

func newFakeSessionIssuer() *fakeSessionIssuer {
	return &fakeSessionIssuer{
		issued:  make(map[int64][]string),
		revoked: make(map[int64]int),
	}
}

func (f *fakeSessionIssuer) Issue(_ context.Context, userID int64) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	token, err := util.NewSessionToken()
	if err != nil {
		return "", err
	}
	f.issued[userID] = append(f.issued[userID], token)
	return token, nil
}

func (f *fakeSessionIssuer) RevokeAll(_ context.Context, userID int64) error {
	f.revoked[userID]++
	f.issued[userID] = nil
	return nil
}

// fakeOrderStore keeps orders and items in memory.
type fakeOrderStore struct {
	orders    map[int64]*models.Order
	items     map[int64][]models.OrderItem
	nextID    int64
	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (f *fakeOrderStore) Transact(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func (f *fakeOrderStore) CreateOrderWithItems(_ context.Context, _ *sqlx.Tx, order *models.Order, items []models.OrderItem) (*models.OrderWithItems, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.nextID++
	created := *order
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.orders[created.ID] = &created

	createdItems := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		item.ID = int64(i + 1)
		item.OrderID = created.ID
		createdItems = append(createdItems, item)
	}
	f.items[created.ID] = createdItems

	return &models.OrderWithItems{Order: created, Items: createdItems}, nil
}

func (f *fakeOrderStore) GetOrderByCustomer(_ context.Context, userID, orderID int64) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != userID {
		return nil, nil
	}
	return &models.Order{ID: order.ID, Status: order.Status}, nil
}

func (f *fakeOrderStore) GetOrderWithItems(_ context.Context, userID, orderID int64) (*models.OrderWithItems, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != userID {
		return nil, nil
	}
	return &models.OrderWithItems{Order: *order, Items: f.items[orderID]}, nil
}

func (f *fakeOrderStore) ListOrdersWithItems(_ context.Context, userID int64, status string) ([]models.OrderWithItems, error) {
	var result []models.OrderWithItems
	for id, order := range f.orders {
		if order.CustomerID != userID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		result = append(result, models.OrderWithItems{Order: *order, Items: f.items[id]})
	}
	return result, nil
}

func (f *fakeOrderStore) CancelPendingOrder(_ context.Context, userID, orderID int64) (int64, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != userID || order.Status != models.OrderStatusPending {
		return 0, nil
	}
	order.Status = models.OrderStatusCancelled
	return 1, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, userID, orderID int64, status string) error {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != userID {
		return errors.New("no such order")
	}
	order.Status = status
	return nil
}

// fakeSessionStore backs SessionService tests.
type fakeSessionStore struct {
	sessions map[string]*models.Session
	ttl      time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*models.Session),
		ttl:      2 * time.Hour,
	}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, userID int64) (*models.Session, error) {
	token, err := util.NewSessionToken()
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(f.ttl),
	}
	f.sessions[token] = session
	return session, nil
}

func (f *fakeSessionStore) DeleteUserSessions(_ context.Context, userID int64) error {
	for token, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeSessionStore) GetSessionByToken(_ context.Context, token string) (*models.Session, error) {
	session, ok := f.sessions[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return session, nil
}

// fakeSessionCache is an in-memory stand-in for the Redis session cache.
type fakeSessionCache struct {
	entries   map[string]int64
	lookupErr error
	revokeErr error
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{entries: make(map[string]int64)}
}

func (f *fakeSessionCache) CacheSession(_ context.Context, token string, userID int64, _ time.Duration) error {
	f.entries[token] = userID
	return nil
}

func (f *fakeSessionCache) LookupSession(_ context.Context, token string) (int64, bool, error) {
	if f.lookupErr != nil {
		return 0, false, f.lookupErr
	}
	userID, ok := f.entries[token]
	return userID, ok, nil
}

func (f *fakeSessionCache) RevokeUserSessions(_ context.Context, userID int64) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	for token, id := range f.entries {
		if id == userID {
			delete(f.entries, token)
		}
	}
	return nil
}
