package api

import (
	"net/http"
	"strconv"
	"time"

	"order-api/internal/models"
	"order-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	authService  *service.AuthService
	orderService *service.OrderService
	sessions     TokenValidator
}

// NewHandler creates a new HTTP handler
func NewHandler(authService *service.AuthService, orderService *service.OrderService, sessions TokenValidator) *Handler {
	return &Handler{
		authService:  authService,
		orderService: orderService,
		sessions:     sessions,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	orders := router.Group("/orders")
	orders.Use(AuthRequired(h.sessions))
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.DELETE("/:id", h.cancelOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// register handles POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	resp, svcErr := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// login handles POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	resp, svcErr := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createOrder handles POST /orders
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	created, svcErr := h.orderService.Create(c.Request.Context(), c.GetInt64(CtxUserIDKey), &req)
	if svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// listOrders handles GET /orders with an optional status filter
func (h *Handler) listOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation Errors",
			"details": "unknown order status: " + status,
		})
		return
	}

	orders, svcErr := h.orderService.List(c.Request.Context(), c.GetInt64(CtxUserIDKey), status)
	if svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// getOrder handles GET /orders/:id
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, svcErr := h.orderService.Get(c.Request.Context(), c.GetInt64(CtxUserIDKey), orderID)
	if svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, order)
}

// updateOrder handles PUT /orders/:id
func (h *Handler) updateOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	if svcErr := h.orderService.UpdateStatus(c.Request.Context(), c.GetInt64(CtxUserIDKey), orderID, req.Status); svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.Status(http.StatusNoContent)
}

// cancelOrder handles DELETE /orders/:id
func (h *Handler) cancelOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	if svcErr := h.orderService.Cancel(c.Request.Context(), c.GetInt64(CtxUserIDKey), orderID); svcErr != nil {
		c.JSON(svcErr.Status, gin.H{"message": svcErr.Message})
		return
	}

	c.Status(http.StatusNoContent)
}

func orderIDParam(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return 0, false
	}
	return orderID, true
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "Validation Errors",
		"details": err.Error(),
	})
}
