// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/barbuddie/pos-terminal/internal/pkg/auth"
)

// AuthHandler handles terminal session endpoints
type AuthHandler struct {
	session *auth.Session
	pins    *auth.PinCache
	logger  *logrus.Logger
}

// NewAuthHandler creates a new auth handler. The PIN cache may be nil when
// Redis is unavailable; PIN login then always goes to the backend.
func NewAuthHandler(session *auth.Session, pins *auth.PinCache, logger *logrus.Logger) *AuthHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AuthHandler{
		session: session,
		pins:    pins,
		logger:  logger,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.session.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Login failed",
		})
		return
	}

	_, name := h.session.User()
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"data":    gin.H{"userName": name},
	})
}

type pinLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
}

// PinLogin handles POST /auth/pin-login. A cached PIN unlocks an existing
// session without a backend round trip; otherwise the backend authenticates
// and the PIN is cached for next time.
func (h *AuthHandler) PinLogin(c *gin.Context) {
	var req pinLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if h.pins != nil && h.session.Authenticated() {
		if err := h.pins.Verify(c.Request.Context(), req.Username, req.Pin); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"message": "Unlocked",
			})
			return
		}
	}

	if err := h.session.LoginPin(c.Request.Context(), req.Username, req.Pin); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Login failed",
		})
		return
	}

	if h.pins != nil {
		if err := h.pins.Store(c.Request.Context(), req.Username, req.Pin); err != nil {
			h.logger.WithError(err).Warn("Failed to cache PIN")
		}
	}

	_, name := h.session.User()
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"data":    gin.H{"userName": name},
	})
}

// Logout handles POST /auth/logout. The cached PIN hash is dropped with the
// session; it is keyed by the login username, captured before the session is
// cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	loginName := h.session.LoginName()
	h.session.Logout()

	if h.pins != nil && loginName != "" {
		if err := h.pins.Invalidate(c.Request.Context(), loginName); err != nil {
			h.logger.WithError(err).Warn("Failed to invalidate cached PIN")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}

// GetSession handles GET /auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	id, name := h.session.User()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"authenticated": h.session.Authenticated(),
			"userId":        id,
			"userName":      name,
		},
	})
}
