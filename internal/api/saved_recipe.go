package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/whatwillyoucook/backend/internal/middleware"
	"github.com/whatwillyoucook/backend/internal/service"
)

type SavedRecipeHandler struct {
	saved *service.SavedRecipeService
}

func NewSavedRecipeHandler(saved *service.SavedRecipeService) *SavedRecipeHandler {
	return &SavedRecipeHandler{saved: saved}
}

type SaveRecipeRequest struct {
	RecipeID string `json:"recipeId" binding:"required"`
}

func (h *SavedRecipeHandler) Save(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "recipeId is required"})
		return
	}

	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	saved, err := h.saved.Save(c.Request.Context(), identity.ID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe saved",
		"savedId": saved.ID,
	})
}

func (h *SavedRecipeHandler) Toggle(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	saved, record, err := h.saved.Toggle(c.Request.Context(), identity.ID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		serverError(c, err)
		return
	}

	if !saved {
		c.JSON(http.StatusOK, gin.H{
			"message": "Removed from saved recipes",
			"saved":   false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe saved",
		"saved":   true,
		"savedId": record.ID,
	})
}

func (h *SavedRecipeHandler) List(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	recipes, err := h.saved.List(c.Request.Context(), identity.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(recipes),
		"recipes": recipes,
	})
}

func (h *SavedRecipeHandler) Delete(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	savedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid saved recipe id"})
		return
	}

	if err := h.saved.Delete(c.Request.Context(), identity.ID, savedID); err != nil {
		if errors.Is(err, service.ErrSavedNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Saved recipe not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from saved recipes"})
}
