package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/middleware"
	"github.com/whatwillyoucook/backend/internal/service"
)

// Registration failures, including email collisions, all answer with this
// one message so the endpoint cannot be used to probe which emails exist.
const registrationErrMsg = "Invalid registration data"

const loginErrMsg = "Invalid email or password"

const sessionMaxAge = int(service.TokenTTL / time.Second)

type AuthHandler struct {
	auth *service.AuthService
	cfg  *config.Config
}

func NewAuthHandler(auth *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": registrationErrMsg})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": registrationErrMsg})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": loginErrMsg})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": loginErrMsg})
			return
		}
		serverError(c, err)
		return
	}

	h.setSessionCookie(c, token, sessionMaxAge)

	// The token travels only in the httpOnly cookie, never in the body.
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// Attributes must match the ones the cookie was set with exactly, or
	// browsers will not clear it.
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the profile of the authenticated user. The engagement counters
// are deliberately constant; they are not modeled yet.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		serverError(c, err)
		return
	}

	bio := user.Bio
	if bio == "" {
		bio = "Home cook who loves experimenting with new recipes!"
	}
	avatar := user.AvatarURL
	if avatar == "" {
		avatar = "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=200&h=200&fit=crop"
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"followers":     0,
			"following":     0,
			"recipesShared": 0,
			"bio":           bio,
			"avatar":        avatar,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	sameSite := http.SameSiteStrictMode
	secure := false
	if config.IsProduction() {
		// Frontend and API live on different origins in production, so the
		// cookie has to cross sites; secure is mandatory with SameSite=None.
		sameSite = http.SameSiteNoneMode
		secure = true
	}
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", secure, true)
}
