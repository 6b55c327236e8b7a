package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutriscan/backend/config"
	"github.com/nutriscan/backend/internal/domain"
)

// RouterOptions are wiring details that do not come from config
type RouterOptions struct {
	// UploadsDir is served under /uploads when set
	UploadsDir string
	Logger     *zap.Logger
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, opts RouterOptions) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(opts.Logger))
	router.Use(LoggerMiddleware(opts.Logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/health", handler.HealthCheck)
	if opts.UploadsDir != "" {
		router.Static("/uploads", opts.UploadsDir)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
		}

		// The help assistant answers visitors before they sign in
		v1.POST("/chat", handler.Chat)

		protected := v1.Group("")
		protected.Use(AuthMiddleware(handler.auth))

		protected.GET("/ws", handler.Events(cfg.Server.AllowedOrigins))

		users := protected.Group("/users")
		{
			users.GET("/profile", handler.GetProfile)
			users.PUT("/profile", handler.UpdateProfile)
			users.PUT("/goals", handler.UpdateGoals)
			users.PUT("/password", handler.ChangePassword)
		}

		admin := protected.Group("/admin", RequireRole(domain.RoleAdmin))
		{
			admin.GET("/users", handler.ListUsers)
			admin.DELETE("/users/:id", handler.DeleteUser)
		}

		meals := protected.Group("/meals")
		{
			meals.GET("", handler.ListMeals)
			meals.POST("", handler.LogMeal)
			meals.DELETE("", handler.ResetDay)
			meals.GET("/date/:date", handler.MealsByDate)
			meals.GET("/summary", handler.DailySummary)
			meals.PUT("/:id", handler.UpdateMeal)
			meals.DELETE("/:id", handler.DeleteMeal)
		}

		water := protected.Group("/water")
		{
			water.POST("", handler.AddWater)
			water.GET("", handler.ListWater)
			water.GET("/today", handler.WaterToday)
			water.DELETE("/:id", handler.DeleteWater)
		}

		foods := protected.Group("/foods")
		{
			foods.GET("", handler.ListFoods)
			foods.GET("/search", handler.SearchFoods)
			foods.GET("/:id", handler.GetFood)
			foods.POST("/recognize", RateLimitMiddleware(cfg.RateLimit.Recognition), handler.RecognizeFood)

			foods.POST("", RequireRole(domain.RoleAdmin), handler.CreateFood)
			foods.PUT("/:id", RequireRole(domain.RoleAdmin), handler.UpdateFood)
			foods.DELETE("/:id", RequireRole(domain.RoleAdmin), handler.DeleteFood)
		}

		recommender := protected.Group("/diet-recommender")
		{
			recommender.GET("/recommendations", handler.GetRecommendations)
			recommender.GET("/alternatives", handler.GetAlternatives)
		}
	}

	return router
}
