package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/dtos"
	"github.com/justsurfingit/jobs-in-germany/internal/services"
)

// Accounts is the part of the auth service the HTTP layer needs.
type Accounts interface {
	Register(ctx context.Context, email, password, name string) (*services.Session, error)
	Me(ctx context.Context, userID uint) (*services.UserProfile, error)
}

type AuthHandler struct {
	Accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

// Register is POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	session, err := h.Accounts.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, services.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Me is GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	profile, err := h.Accounts.Me(c.Request.Context(), user.UserID)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
