package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/whatwillyoucook/backend/internal/middleware"
	"github.com/whatwillyoucook/backend/internal/service"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	images  *service.ImageService
}

func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

type CreateRecipeRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	IngredientsText string   `json:"ingredientsText"`
	Steps           string   `json:"steps"`
	CookingTime     int      `json:"cookingTime"`
	ImageURL        string   `json:"imageUrl"`
}

func (h *RecipeHandler) Create(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and ingredients are required"})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), identity.ID, service.CreateRecipeInput{
		Name:            req.Name,
		Description:     req.Description,
		Ingredients:     req.Ingredients,
		IngredientsText: req.IngredientsText,
		Steps:           req.Steps,
		CookingTime:     req.CookingTime,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrNoIngredients):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name and ingredients are required"})
		case errors.Is(err, service.ErrTooManyIngredients):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Too many ingredients (max 30)"})
		default:
			serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created",
		"recipe":  recipe,
	})
}

func (h *RecipeHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	recipes, err := h.recipes.ListOwn(c.Request.Context(), identity.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

type SearchRequest struct {
	Ingredients     []string `json:"ingredients"`
	IngredientsText string   `json:"ingredientsText"`
	MatchMode       string   `json:"matchMode"`
}

func (h *RecipeHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No ingredients provided"})
		return
	}

	recipes, err := h.recipes.Search(c.Request.Context(), req.Ingredients, req.IngredientsText, req.MatchMode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoIngredients):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No ingredients provided"})
		case errors.Is(err, service.ErrTooManyIngredients):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Too many ingredients (max 30)"})
		default:
			serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matchedCount": len(recipes),
		"recipes":      recipes,
	})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Feedback(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	fb, err := h.recipes.GetFeedback(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, fb)
}

type RateRequest struct {
	Rating int `json:"rating"`
}

func (h *RecipeHandler) Rate(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5"})
		return
	}

	summary, err := h.recipes.Rate(c.Request.Context(), id, identity.ID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRatingRange):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Rating must be between 1 and 5"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		default:
			serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Rating saved",
		"myRating":    summary.MyRating,
		"avgRating":   summary.AvgRating,
		"ratingCount": summary.RatingCount,
	})
}

type CommentRequest struct {
	Text string `json:"text"`
}

func (h *RecipeHandler) Comment(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}

	authorName := identity.Name
	if authorName == "" {
		authorName = identity.Email
	}

	comment, err := h.recipes.AddComment(c.Request.Context(), id, identity.ID, authorName, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		default:
			serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added",
		"comment": comment,
	})
}

// UploadImage stores a recipe photo in S3 and points the recipe at it.
// Only the recipe's creator may replace its image.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Image uploads are not enabled"})
		return
	}

	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		serverError(c, err)
		return
	}
	if recipe.CreatedBy != identity.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only the recipe owner can change its image"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}
	defer file.Close()

	if header.Size > service.MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image too large (max 5 MB)"})
		return
	}

	url, err := h.images.UploadRecipeImage(c.Request.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to upload image"})
		return
	}

	if err := h.recipes.SetImageURL(c.Request.Context(), id, url); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded",
		"imageUrl": url,
	})
}

// recipeID parses the :id path parameter. A malformed id is a 400, not a
// 404: it can never resolve regardless of data state.
func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}
