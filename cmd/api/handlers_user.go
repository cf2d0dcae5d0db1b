package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-api/internal/user"
)

// registerHandler crea una cuenta nueva.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body user.RegisterRequest true "account"
// @Success 201 {object} user.User
// @Failure 400 {object} catalog.HTTPError
// @Failure 409 {object} catalog.HTTPError
// @Router /auth/register [post]
func registerHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         user.RoleCustomer,
		}
		if err := repo.Create(c.Request.Context(), u); err != nil {
			if err == user.ErrAlreadyExist {
				c.JSON(http.StatusConflict, gin.H{"error": "user exists (username/email)"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), u.ID)
		if err != nil {
			// row just written; return headers we already have
			out = u
		}
		c.JSON(http.StatusCreated, out)
	}
}

// loginHandler verifica credenciales y devuelve la identidad.
// No emite tokens; ok=false en credenciales inválidas.
func loginHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		u, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if err == user.ErrNotFound {
				c.JSON(http.StatusOK, user.LoginResponse{OK: false})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !user.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(http.StatusOK, user.LoginResponse{OK: false})
			return
		}
		c.JSON(http.StatusOK, user.LoginResponse{OK: true, UserID: u.ID})
	}
}

func getUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func listUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []user.User{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "limit": limit, "offset": offset})
	}
}

func updateUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		updatePassword := false
		var newHash string
		if req.Password != "" {
			h, err := user.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
				return
			}
			newHash = h
			updatePassword = true
		}
		u := &user.User{
			ID:           c.Param("id"),
			Username:     req.Username, // vacío => no cambia
			Email:        req.Email,    // vacío => no cambia
			PasswordHash: newHash,
		}
		if err := repo.Update(c.Request.Context(), u, updatePassword); err != nil {
			switch err {
			case user.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case user.ErrAlreadyExist:
				c.JSON(http.StatusConflict, gin.H{"error": "username/email taken"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		out, err := repo.GetByID(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found after update"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// updateUserRoleHandler cambia el rol (customer|admin).
func updateUserRoleHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Role string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
			return
		}
		if !user.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		if err := repo.UpdateRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
			if err == user.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
