package main

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-api/internal/cart"
	"github.com/MikeMC777/tienda-api/internal/catalog"
	"github.com/MikeMC777/tienda-api/internal/coupon"
	"github.com/MikeMC777/tienda-api/internal/events"
	"github.com/MikeMC777/tienda-api/internal/order"
	"github.com/MikeMC777/tienda-api/internal/user"
)

// createOrderHandler crea una orden con ítems explícitos. El precio se
// congela al momento de la compra; el stock se descuenta en la misma
// transacción.
// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param body body order.CreateOrderRequest true "order"
// @Success 201 {object} order.OrderResponse
// @Failure 400 {object} catalog.HTTPError
// @Failure 404 {object} catalog.HTTPError
// @Failure 409 {object} catalog.HTTPError
// @Router /orders [post]
func createOrderHandler(repo order.Repository, users user.Repository, products catalog.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and items are required"})
			return
		}
		if _, err := users.GetByID(c.Request.Context(), req.UserID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		o := &order.Order{
			ID:     uuid.NewString(),
			UserID: req.UserID,
			Status: order.StatusPending,
		}
		var items []order.Item
		var refs []events.ItemRef
		for _, in := range req.Items {
			if in.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
				return
			}
			p, err := products.GetByID(c.Request.Context(), in.ProductID)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			if p.Stock < in.Quantity {
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
				return
			}
			items = append(items, order.Item{
				ID:        uuid.NewString(),
				OrderID:   o.ID,
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Price:     p.Price,
			})
			refs = append(refs, events.ItemRef{ProductID: in.ProductID, Quantity: in.Quantity})
		}

		total, err := order.ComputeTotal(items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		o.Total = total

		if err := repo.Create(c.Request.Context(), o, items); err != nil {
			switch err {
			case order.ErrInsufficientStock:
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
			case order.ErrBadReference:
				c.JSON(http.StatusNotFound, gin.H{"error": "user or product not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		pub.Publish(c.Request.Context(), events.OrderCreated(o.ID, o.UserID, o.Total, refs))
		c.JSON(http.StatusCreated, order.OrderResponse{Order: *o, Items: items})
	}
}

// checkoutHandler arma la orden desde el carrito del usuario, vacía el
// carrito y aplica un cupón opcional.
func checkoutHandler(repo order.Repository, carts cart.Repository, products catalog.Repository, coupons coupon.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		ct, err := carts.GetOrCreate(c.Request.Context(), userID)
		if err != nil {
			if err == cart.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		lines, err := carts.GetItems(c.Request.Context(), ct.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(lines) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}

		o := &order.Order{
			ID:     uuid.NewString(),
			UserID: userID,
			Status: order.StatusPending,
		}
		var items []order.Item
		var refs []events.ItemRef
		for _, line := range lines {
			p, err := products.GetByID(c.Request.Context(), line.ProductID)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "product no longer exists"})
				return
			}
			items = append(items, order.Item{
				ID:        uuid.NewString(),
				OrderID:   o.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     p.Price,
			})
			refs = append(refs, events.ItemRef{ProductID: line.ProductID, Quantity: line.Quantity})
		}

		total, err := order.ComputeTotal(items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if code := strings.TrimSpace(c.Query("coupon")); code != "" {
			cp, err := coupons.GetByCode(c.Request.Context(), code)
			if err != nil || !cp.Active {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon"})
				return
			}
			total, err = order.ApplyPercentOff(total, cp.Percent)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		o.Total = total

		if err := repo.Create(c.Request.Context(), o, items); err != nil {
			switch err {
			case order.ErrInsufficientStock:
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
			case order.ErrBadReference:
				c.JSON(http.StatusNotFound, gin.H{"error": "user or product not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		pub.Publish(c.Request.Context(), events.OrderCreated(o.ID, o.UserID, o.Total, refs))

		// la orden ya está confirmada; un carrito sucio no la revierte
		if err := carts.Clear(c.Request.Context(), ct.ID); err != nil {
			log.Printf("[orders] clear cart %s: %v", ct.ID, err)
		}
		c.JSON(http.StatusCreated, order.OrderResponse{Order: *o, Items: items})
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, items, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, order.OrderResponse{Order: *o, Items: items})
	}
}

func getOrderItemsHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.GetItems(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func listOrdersByUserHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := repo.ListByUser(c.Request.Context(), c.Param("user_id"), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "limit": limit, "offset": offset})
	}
}

// updateOrderStatusHandler valida la transición; cancelar una orden
// devuelve el stock de sus ítems en la misma transacción.
func updateOrderStatusHandler(repo order.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		o, _, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !order.CanTransition(o.Status, req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status transition"})
			return
		}
		if req.Status == order.StatusCanceled {
			err = repo.Cancel(c.Request.Context(), o.ID)
		} else {
			err = repo.UpdateStatus(c.Request.Context(), o.ID, req.Status)
		}
		if err != nil {
			switch err {
			case order.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case order.ErrAlreadyClosed:
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status transition"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		pub.Publish(c.Request.Context(), events.OrderStatusChanged(o.ID, req.Status))
		o.Status = req.Status
		c.JSON(http.StatusOK, o)
	}
}

// createPaymentHandler registra el único pago de la orden; el monto es
// el total de la orden.
// @Summary Record payment
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param body body order.CreatePaymentRequest true "payment"
// @Success 201 {object} order.Payment
// @Failure 404 {object} catalog.HTTPError
// @Failure 409 {object} catalog.HTTPError
// @Router /orders/{id}/payment [post]
func createPaymentHandler(repo order.Repository, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "method is required"})
			return
		}
		o, _, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		p := &order.Payment{
			ID:      uuid.NewString(),
			OrderID: o.ID,
			Amount:  o.Total,
			Method:  req.Method,
			Status:  "pending",
		}
		if err := repo.CreatePayment(c.Request.Context(), p); err != nil {
			switch err {
			case order.ErrPaymentExists:
				c.JSON(http.StatusConflict, gin.H{"error": "order already has a payment"})
			case order.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		pub.Publish(c.Request.Context(), events.PaymentRecorded(p.ID, o.ID, p.Amount, p.Method))
		c.JSON(http.StatusCreated, p)
	}
}

func getPaymentHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetPayment(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updatePaymentStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		if err := repo.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			if err == order.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
	}
}

func createShippingHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
			return
		}
		o, _, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		s := &order.Shipping{
			ID:      uuid.NewString(),
			OrderID: o.ID,
			Address: req.Address,
			Status:  "preparing",
		}
		if err := repo.CreateShipping(c.Request.Context(), s); err != nil {
			switch err {
			case order.ErrShippingExists:
				c.JSON(http.StatusConflict, gin.H{"error": "order already has a shipping record"})
			case order.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

func getShippingHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := repo.GetShipping(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "shipping not found"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func updateShippingStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		if err := repo.UpdateShippingStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			if err == order.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "shipping not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
	}
}
