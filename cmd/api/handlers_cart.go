package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-api/internal/cart"
	"github.com/MikeMC777/tienda-api/internal/catalog"
)

// getCartHandler devuelve el carrito del usuario, creándolo si no existe.
// @Summary Get cart
// @Tags cart
// @Produce json
// @Param user_id query string true "user id"
// @Success 200 {object} cart.CartResponse
// @Failure 404 {object} catalog.HTTPError
// @Router /cart [get]
func getCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		ct, err := repo.GetOrCreate(c.Request.Context(), userID)
		if err != nil {
			if err == cart.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		items, err := repo.GetItems(c.Request.Context(), ct.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if items == nil {
			items = []cart.Item{}
		}
		c.JSON(http.StatusOK, cart.CartResponse{Cart: *ct, Items: items})
	}
}

// addCartItemHandler valida producto y stock antes de insertar.
func addCartItemHandler(repo cart.Repository, products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, product_id and quantity are required"})
			return
		}
		if req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if p.Stock < req.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient stock"})
			return
		}
		ct, err := repo.GetOrCreate(c.Request.Context(), req.UserID)
		if err != nil {
			if err == cart.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		it := &cart.Item{
			ID:        uuid.NewString(),
			CartID:    ct.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := repo.AddItem(c.Request.Context(), it); err != nil {
			if err == cart.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, it)
	}
}

func updateCartItemHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		if req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}
		if err := repo.UpdateItemQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
			if err == cart.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		it, err := repo.GetItem(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func deleteCartItemHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.RemoveItem(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func addWishHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.WishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and product_id are required"})
			return
		}
		if err := repo.AddWish(c.Request.Context(), req.UserID, req.ProductID); err != nil {
			if err == cart.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "user or product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusCreated)
	}
}

func listWishesHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		out, err := repo.ListWishes(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"product_ids": out})
	}
}

func removeWishHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		ok, err := repo.RemoveWish(c.Request.Context(), userID, c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "wishlist entry not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
