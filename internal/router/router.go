package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/api"
	"github.com/whatwillyoucook/backend/internal/middleware"
)

// Setup wires the full route table. A nil redisClient disables rate
// limiting (used by tests); everything else is mounted unconditionally.
func Setup(
	cfg *config.Config,
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	savedHandler *api.SavedRecipeHandler,
	validator middleware.TokenValidator,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	limit := func(rl *middleware.RateLimiter) gin.HandlerFunc {
		if redisClient == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return rl.Middleware()
	}
	authLimiter := limit(middleware.NewAuthRateLimiter(redisClient))
	ratingLimiter := limit(middleware.NewRatingRateLimiter(redisClient))
	commentLimiter := limit(middleware.NewCommentRateLimiter(redisClient))

	requireAuth := middleware.RequireAuth(validator)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "What Will You Cook backend is running")
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authLimiter, authHandler.Register)
		auth.POST("/login", authLimiter, authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	recipes := router.Group("/api/recipes")
	{
		recipes.GET("/my", requireAuth, recipeHandler.ListMine)
		recipes.POST("", requireAuth, recipeHandler.Create)
		recipes.POST("/search", recipeHandler.Search)
		recipes.GET("/:id", recipeHandler.Get)
		recipes.GET("/:id/feedback", recipeHandler.Feedback)
		recipes.POST("/:id/rate", requireAuth, ratingLimiter, recipeHandler.Rate)
		recipes.POST("/:id/comments", requireAuth, commentLimiter, recipeHandler.Comment)
		recipes.POST("/:id/image", requireAuth, recipeHandler.UploadImage)
	}

	saved := router.Group("/api/saved-recipes")
	saved.Use(requireAuth)
	{
		saved.POST("", savedHandler.Save)
		saved.POST("/:id/toggle", savedHandler.Toggle)
		saved.GET("", savedHandler.List)
		saved.DELETE("/:id", savedHandler.Delete)
	}

	return router
}
