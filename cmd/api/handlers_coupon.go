package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-api/internal/audit"
	"github.com/MikeMC777/tienda-api/internal/coupon"
)

func createCouponHandler(repo coupon.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coupon.CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code and percent_off are required"})
			return
		}
		pct, err := decimal.NewFromString(req.Percent)
		if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percent_off must be between 0 and 100"})
			return
		}
		cp := &coupon.Coupon{
			ID:      uuid.NewString(),
			Code:    strings.ToUpper(strings.TrimSpace(req.Code)),
			Percent: pct.String(),
			Active:  true,
		}
		if err := repo.Create(c.Request.Context(), cp); err != nil {
			if err == coupon.ErrDuplicate {
				c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, cp)
	}
}

func listCouponsHandler(repo coupon.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []coupon.Coupon{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getCouponHandler(repo coupon.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, err := repo.GetByCode(c.Request.Context(), strings.ToUpper(c.Param("code")))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}

func updateCouponHandler(repo coupon.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req coupon.UpdateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active is required"})
			return
		}
		if err := repo.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
			if err == coupon.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
	}
}

func deleteCouponHandler(repo coupon.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// listAuditHandler expone el rastro de auditoría de una entidad.
func listAuditHandler(repo audit.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListByEntity(c.Request.Context(), c.Param("entity_id"), 50)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []audit.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}
