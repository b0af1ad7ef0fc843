package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkchq/projectboard/internal/dto"
	apierrors "github.com/nkchq/projectboard/internal/errors"
	"github.com/nkchq/projectboard/internal/middleware"
	"github.com/nkchq/projectboard/internal/services"
	"github.com/nkchq/projectboard/internal/session"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Manager
	secure      bool
}

// NewAuthHandler creates a new AuthHandler. secure controls the cookie's
// Secure attribute.
func NewAuthHandler(authService *services.AuthService, sessions *session.Manager, secure bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		secure:      secure,
	}
}

// Login authenticates a user and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := h.sessions.Issue(services.IdentityOf(user))
	if err != nil {
		apierrors.InternalError(c, "Failed to start session")
		return
	}
	middleware.SetSessionCookie(c, token, int(h.sessions.TTL().Seconds()), h.secure)

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
