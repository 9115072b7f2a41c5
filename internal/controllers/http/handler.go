package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"game-store/internal/domain"
	"game-store/internal/infra"
	"game-store/internal/logging"
	"game-store/internal/repository"
	"game-store/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultCartCacheTTL = 10 * time.Second

type Handler struct {
	cart     *services.CartService
	payments *services.PaymentService
	orders   *services.OrderService
	prices   *services.PriceService
	renderer infra.InvoiceRendererInterface
	rdb      *redis.Client
	cartTTL  time.Duration
}

func NewHandler(
	cart *services.CartService,
	payments *services.PaymentService,
	orders *services.OrderService,
	prices *services.PriceService,
	renderer infra.InvoiceRendererInterface,
	rdb *redis.Client,
) *Handler {
	return &Handler{
		cart:     cart,
		payments: payments,
		orders:   orders,
		prices:   prices,
		renderer: renderer,
		rdb:      rdb,
		cartTTL:  defaultCartCacheTTL,
	}
}

// SetCartTTL overrides the default cart view cache lifetime.
func (h *Handler) SetCartTTL(d time.Duration) {
	if d > 0 {
		h.cartTTL = d
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/cart/add", h.AddToCart)
	r.GET("/cart", h.GetCart)
	r.DELETE("/cart/remove", h.RemoveFromCart)
	r.DELETE("/cart/clear", h.ClearCart)

	r.POST("/payments", h.CreatePayment)
	r.PUT("/payments", h.UpdatePayment)

	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)

	r.POST("/games/:id/price", h.SetPrice)
	r.GET("/games/:id/price", h.GetPrice)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyPaid), errors.Is(err, domain.ErrOrderClosed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateOpenOrder):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.From(c).Error("request failed", "err", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func queryUint(c *gin.Context, name string) (uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " required"})
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func (h *Handler) AddToCart(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}
	gameID, ok := queryUint(c, "gameId")
	if !ok {
		return
	}

	quantity := int64(1)
	if raw := c.Query("quantity"); raw != "" {
		q, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
			return
		}
		quantity = q
	}

	order, err := h.cart.AddToCart(c.Request.Context(), userID, gameID, quantity)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.invalidateCartCache(userID)
	c.JSON(http.StatusOK, cartView(order.ID, order.Items))
}

func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cacheKey := cartCacheKey(userID)
	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var view CartView
			if err := json.Unmarshal([]byte(b), &view); err == nil {
				c.JSON(http.StatusOK, view)
				return
			}
		}
	}

	items, err := h.cart.ItemsInCart(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	view := cartView(0, items)
	if h.rdb != nil {
		if data, err := json.Marshal(view); err == nil {
			h.rdb.Set(ctx, cacheKey, data, h.cartTTL)
		}
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}
	itemID, ok := queryUint(c, "orderItemId")
	if !ok {
		return
	}

	if err := h.cart.RemoveFromCart(c.Request.Context(), userID, itemID); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidateCartCache(userID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}

	if err := h.cart.ClearCart(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidateCartCache(userID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreatePayment settles the order and relays the rendered invoice document.
// Without a configured renderer the structured invoice record is returned.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	invoice, err := h.payments.Settle(ctx, req.OrderID, req.PaymentMethod)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.invalidateCartCache(invoice.UserID)

	if h.renderer != nil {
		doc, err := h.renderer.Render(ctx, invoice)
		if err != nil {
			logging.From(c).Error("invoice rendering failed, returning record", "order_id", invoice.OrderID, "err", err)
		} else {
			c.Data(http.StatusOK, doc.ContentType, doc.Body)
			return
		}
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.payments.UpdateSettlement(c.Request.Context(), req.ID, req.PayedAt, req.PaymentMethod)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentView{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		Confirmed:     payment.Confirmed,
		PayedAt:       payment.PayedAt,
		PaymentMethod: payment.PaymentMethod,
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := queryUint(c, "userId")
	if !ok {
		return
	}

	q := repository.OrderQuery{UserID: userID, Page: 1, Limit: 50}
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		q.Page = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q.Limit = v
	}
	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		q.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		q.To = &t
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.OrderStatus(raw)
		switch status {
		case domain.StatusCreated, domain.StatusInitiated, domain.StatusPayed, domain.StatusCancelled:
			q.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) SetPrice(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := h.prices.SetCurrentPrice(c.Request.Context(), gameID, req.Value, req.Stock)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (h *Handler) GetPrice(c *gin.Context) {
	gameID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	price, err := h.prices.CurrentPrice(c.Request.Context(), gameID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if price == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game has no current price"})
		return
	}
	c.JSON(http.StatusOK, price)
}

func cartCacheKey(userID uint64) string {
	return "cart:user:" + strconv.FormatUint(userID, 10)
}

func (h *Handler) invalidateCartCache(userID uint64) {
	if h.rdb == nil {
		return
	}
	h.rdb.Del(context.Background(), cartCacheKey(userID))
}

func cartView(orderID uint64, items []domain.OrderItem) CartView {
	view := CartView{OrderID: orderID, Items: make([]CartItemView, 0, len(items))}
	for i := range items {
		item := &items[i]
		title := ""
		if item.Game != nil {
			title = item.Game.Title
		}
		view.Items = append(view.Items, CartItemView{
			OrderItemID: item.ID,
			GameID:      item.GameID,
			Title:       title,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
		view.Total += item.Price * item.Quantity
	}
	return view
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
