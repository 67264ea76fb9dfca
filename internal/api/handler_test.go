package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"order-api/internal/models"
	"order-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

// rejectingOrderStore counts every call so tests can assert that invalid
// payloads never reach persistence.
type rejectingOrderStore struct {
	calls int
}

func (r *rejectingOrderStore) Transact(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	r.calls++
	return fn(nil)
}

func (r *rejectingOrderStore) CreateOrderWithItems(_ context.Context, _ *sqlx.Tx, _ *models.Order, _ []models.OrderItem) (*models.OrderWithItems, error) {
	r.calls++
	return nil, nil
}

func (r *rejectingOrderStore) GetOrderByCustomer(_ context.Context, _, _ int64) (*models.Order, error) {
	r.calls++
	return nil, nil
}

func (r *rejectingOrderStore) GetOrderWithItems(_ context.Context, _, _ int64) (*models.OrderWithItems, error) {
	r.calls++
	return nil, nil
}

func (r *rejectingOrderStore) ListOrdersWithItems(_ context.Context, _ int64, _ string) ([]models.OrderWithItems, error) {
	r.calls++
	return nil, nil
}

func (r *rejectingOrderStore) CancelPendingOrder(_ context.Context, _, _ int64) (int64, error) {
	r.calls++
	return 0, nil
}

func (r *rejectingOrderStore) UpdateOrderStatus(_ context.Context, _, _ int64, _ string) error {
	r.calls++
	return nil
}

func newHandlerTestRouter(store *rejectingOrderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	validator := &stubValidator{sessions: map[string]*models.Session{
		"cafebabe": {UserID: 7, Token: "cafebabe", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	h := NewHandler(
		service.NewAuthService(nil, nil),
		service.NewOrderService(store, nil),
		validator,
	)

	router := gin.New()
	h.SetupRoutes(router)
	return router
}

func doJSONRequest(router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer cafebabe")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEmptyItemsRejected(t *testing.T) {
	store := &rejectingOrderStore{}
	router := newHandlerTestRouter(store)

	w := doJSONRequest(router, http.MethodPost, "/orders", `{"items": []}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Validation Errors")
	assert.Zero(t, store.calls, "invalid payload must be rejected before persistence")
}

func TestCreateOrderMissingItemsRejected(t *testing.T) {
	store := &rejectingOrderStore{}
	router := newHandlerTestRouter(store)

	w := doJSONRequest(router, http.MethodPost, "/orders", `{}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Validation Errors")
	assert.Zero(t, store.calls)
}

func TestCreateOrderZeroQuantityRejected(t *testing.T) {
	store := &rejectingOrderStore{}
	router := newHandlerTestRouter(store)

	w := doJSONRequest(router, http.MethodPost, "/orders",
		`{"items": [{"name": "Keyboard", "quantity": 0, "price": 4300}]}`, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Validation Errors")
	assert.Zero(t, store.calls)
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	router := newHandlerTestRouter(&rejectingOrderStore{})

	w := doJSONRequest(router, http.MethodPost, "/auth/register",
		`{"name": "John Doe", "email": "john@mail.com", "password": "short"}`, false)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Validation Errors")
}

func TestListOrdersUnknownStatusRejected(t *testing.T) {
	store := &rejectingOrderStore{}
	router := newHandlerTestRouter(store)

	w := doJSONRequest(router, http.MethodGet, "/orders?status=shipped", "", true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Validation Errors")
	assert.Zero(t, store.calls)
}
