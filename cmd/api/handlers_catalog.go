package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-api/internal/catalog"
)

func createCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		cat := &catalog.Category{ID: uuid.NewString(), Name: req.Name}
		if err := repo.Create(c.Request.Context(), cat); err != nil {
			if err == catalog.ErrDuplicate {
				c.JSON(http.StatusConflict, gin.H{"error": "category exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cat.ID)
		if err != nil {
			out = cat
		}
		c.JSON(http.StatusCreated, out)
	}
}

func listCategoriesHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []catalog.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func updateCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		cat := &catalog.Category{ID: c.Param("id"), Name: req.Name}
		if err := repo.Update(c.Request.Context(), cat); err != nil {
			switch err {
			case catalog.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			case catalog.ErrDuplicate:
				c.JSON(http.StatusConflict, gin.H{"error": "category exists"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cat.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteCategoryHandler: RESTRICT policy, 409 mientras existan productos.
func deleteCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			if err == catalog.ErrCategoryInUse {
				c.JSON(http.StatusConflict, gin.H{"error": "category has products"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCategoryProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListByCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []catalog.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

// listOnlyHandler pagina sin búsqueda (la búsqueda vive en /products/search).
// @Summary List products
// @Tags products
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} catalog.ListResponse
// @Router /products [get]
func listOnlyHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		items, err := repo.List(c.Request.Context(), catalog.Query{Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// searchHandler exige q con al menos 2 caracteres.
// @Summary Search products
// @Tags products
// @Produce json
// @Param q query string true "search text (min 2 chars)"
// @Success 200 {object} catalog.ListResponse
// @Failure 400 {object} catalog.HTTPError
// @Router /products/search [get]
func searchHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len(q) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q must have at least 2 characters"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		items, err := repo.List(c.Request.Context(), catalog.Query{Q: q, Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Q: q, Limit: limit, Offset: offset, Items: items})
	}
}

func getProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler crea el producto y su fila de inventario.
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param body body catalog.CreateProductRequest true "product"
// @Success 201 {object} catalog.Product
// @Failure 400 {object} catalog.HTTPError
// @Failure 404 {object} catalog.HTTPError
// @Router /products [post]
func createProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category_id, name and price are required"})
			return
		}
		if req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be non-negative"})
			return
		}
		if !validPrice(req.Price) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		p := &catalog.Product{
			ID:          uuid.NewString(),
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			if err == catalog.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			out = p
		}
		c.JSON(http.StatusCreated, out)
	}
}

func updateProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		updatePrice := req.Price != ""
		if updatePrice && !validPrice(req.Price) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		p := &catalog.Product{
			ID:          c.Param("id"),
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice); err != nil {
			switch err {
			case catalog.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			case catalog.ErrBadReference:
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getInventoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		stock, err := repo.GetStock(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": c.Param("id"), "stock": stock})
	}
}

func updateInventoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock is required"})
			return
		}
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be non-negative"})
			return
		}
		if err := repo.SetStock(c.Request.Context(), c.Param("id"), *req.Stock); err != nil {
			if err == catalog.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_id": c.Param("id"), "stock": *req.Stock})
	}
}

func createReviewHandler(repo catalog.ReviewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, product_id and rating are required"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}
		rv := &catalog.Review{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := repo.Create(c.Request.Context(), rv); err != nil {
			if err == catalog.ErrBadReference {
				c.JSON(http.StatusNotFound, gin.H{"error": "user or product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, rv)
	}
}

func listProductReviewsHandler(repo catalog.ReviewRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListByProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []catalog.Review{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func validPrice(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && !d.IsNegative()
}
