package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/service"
	"quote-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	resolver    *service.QuotabilityResolver
	cart        *service.CartService
	selector    *service.GatewaySelector
	machine     *service.QuoteStateMachine
	coordinator *service.NotificationCoordinator
	bulk        *service.BulkUpdater
	settings    *service.SettingsService
	checkout    *service.CheckoutService
	session     service.CheckoutSession
}

// NewHandler creates a new HTTP handler
func NewHandler(
	resolver *service.QuotabilityResolver,
	cart *service.CartService,
	selector *service.GatewaySelector,
	machine *service.QuoteStateMachine,
	coordinator *service.NotificationCoordinator,
	bulk *service.BulkUpdater,
	settings *service.SettingsService,
	checkout *service.CheckoutService,
	session service.CheckoutSession,
) *Handler {
	return &Handler{
		resolver:    resolver,
		cart:        cart,
		selector:    selector,
		machine:     machine,
		coordinator: coordinator,
		bulk:        bulk,
		settings:    settings,
		checkout:    checkout,
		session:     session,
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

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products/:id", h.getProduct)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.GET("/cart/gateways", h.getCartGateways)
		v1.PUT("/cart/gateway", h.chooseGateway)

		v1.POST("/checkout", h.placeOrder)
		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)

		admin := v1.Group("/admin")
		{
			admin.PUT("/products/:id/quotable", h.setProductQuotable)
			admin.POST("/products/quotable", h.bulkSetQuotable)
			admin.GET("/settings/quotes", h.getQuoteSettings)
			admin.PUT("/settings/quotes", h.applyQuoteSettings)
			admin.GET("/orders/:id/notes", h.getOrderNotes)

			admin.POST("/orders/:id/price", h.priceOrder)
			admin.POST("/orders/:id/send-quote", h.sendQuote)
			admin.POST("/orders/:id/cancel", h.cancelQuote)
		}
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

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Session-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing X-Session-ID header"})
		return "", false
	}
	return id, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError maps domain error kinds to HTTP responses. Conflicts and
// illegal transitions are recovered conditions, not failures, so they come
// back as notices on a 200.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrCartConflict):
		c.JSON(http.StatusOK, gin.H{
			"conflict": true,
			"notice":   service.ConflictNotice,
		})
	case errors.Is(err, models.ErrIllegalTransition):
		c.JSON(http.StatusOK, gin.H{
			"applied": false,
			"notice":  "Action is not available in the current quote status",
		})
	case errors.Is(err, models.ErrQuoteNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// getProduct returns the customer-facing product view
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.resolver.GetProductView(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// getCart returns the cart lines with their classification
func (h *Handler) getCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	lines, err := h.session.GetCartLines(ctx, sid)
	if err != nil {
		respondError(c, err)
		return
	}

	class, err := h.cart.Classify(ctx, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	needsPayment, err := h.cart.NeedsPayment(ctx, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lines":          lines,
		"classification": class,
		"needs_payment":  needsPayment,
	})
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// addCartItem adds a product to the session cart
func (h *Handler) addCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.cart.AddToCart(c.Request.Context(), sid, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conflict": false})
}

// getCartGateways returns the gateways offered for the current cart
func (h *Handler) getCartGateways(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	lines, err := h.session.GetCartLines(ctx, sid)
	if err != nil {
		respondError(c, err)
		return
	}

	gateways, err := h.selector.AvailableGateways(ctx, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	needsPayment, err := h.cart.NeedsPayment(ctx, lines)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gateways":      gateways,
		"needs_payment": needsPayment,
	})
}

type chooseGatewayRequest struct {
	Gateway string `json:"gateway" binding:"required"`
}

// chooseGateway records the customer's payment method choice
func (h *Handler) chooseGateway(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req chooseGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.checkout.ChooseGateway(c.Request.Context(), sid, req.Gateway); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gateway": req.Gateway})
}

// placeOrder completes checkout for the session cart
func (h *Handler) placeOrder(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.checkout.PlaceOrder(c.Request.Context(), sid, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listOrders returns a user's orders
func (h *Handler) listOrders(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing user_id"})
		return
	}

	orders, err := h.checkout.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder returns an order with its quote state queries
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.checkout.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type setQuotableRequest struct {
	Quotable *bool `json:"quotable" binding:"required"`
}

// setProductQuotable saves the per-product quotable flag
func (h *Handler) setProductQuotable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setQuotableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.resolver.SetQuotable(c.Request.Context(), id, *req.Quotable); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "quotable": *req.Quotable})
}

// bulkSetQuotable applies the quotable flag to the whole catalog
func (h *Handler) bulkSetQuotable(c *gin.Context) {
	var req setQuotableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.bulk.ApplyToAllProducts(c.Request.Context(), *req.Quotable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products_updated": updated})
}

// getOrderNotes returns admin notes for an order
func (h *Handler) getOrderNotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	notes, err := h.checkout.GetOrderNotes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "notes": notes})
}

// getQuoteSettings reads the store-wide quote setting
func (h *Handler) getQuoteSettings(c *gin.Context) {
	enabled, err := h.settings.GetGlobalQuoteSetting(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

type quoteSettingsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// applyQuoteSettings saves the store-wide quote setting
func (h *Handler) applyQuoteSettings(c *gin.Context) {
	var req quoteSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.settings.ApplyGlobalQuoteSetting(c.Request.Context(), *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type priceOrderRequest struct {
	TotalAmount int64 `json:"total_amount" binding:"required,min=1"`
}

// priceOrder records the admin-set quote price
func (h *Handler) priceOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req priceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.machine.MarkPriced(c.Request.Context(), id, req.TotalAmount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "quote_status": models.QuoteStatusComplete})
}

// sendQuote triggers (or repeats) the quote notification
func (h *Handler) sendQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ack, err := h.coordinator.SendQuote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack)
}

type cancelQuoteRequest struct {
	Reason string `json:"reason"`
}

// cancelQuote cancels a quote order still pending fulfillment
func (h *Handler) cancelQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req cancelQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	if err := h.machine.Cancel(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "quote_status": models.QuoteStatusCancelled})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
