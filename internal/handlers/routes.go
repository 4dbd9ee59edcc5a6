package handlers

import (
	"net/http"

	"github.com/developia-II/servicehub-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database) {
	logrus.Info("Setting up routes...")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "servicehub-backend",
		})
	})

	if db == nil {
		logrus.Warn("Database not connected - running with limited functionality")
		router.Any("/api/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Database connection not available",
				"message": "The server is running but could not connect to the database. Please check server logs.",
			})
		})
		return
	}

	authHandler := NewAuthHandler(db)
	categoryHandler := NewCategoryHandler(db)
	serviceHandler := NewServiceHandler(db)
	providerHandler := NewProviderHandler(db)
	clientHandler := NewClientHandler(db)
	uploadHandler := NewUploadHandler()
	paymentHandler := NewPaymentHandler(db)

	// Public Routes
	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh-token", authHandler.RefreshToken)
	}

	// Public browsing: the catalog and provider directory are readable
	// without an account.
	public := router.Group("/api/v1/public")
	{
		public.GET("/categories", categoryHandler.GetAllCategories)
		public.GET("/categories/:id", categoryHandler.GetCategoryByID)
		public.GET("/categories/:id/services", categoryHandler.GetCategoryWithServices)
		public.GET("/services", serviceHandler.GetAllServices)
		public.GET("/services/:id", serviceHandler.GetServiceByID)
		public.GET("/services/search", serviceHandler.SearchServices)
		public.GET("/providers", providerHandler.GetAllProviders)
		public.GET("/providers/:id", providerHandler.GetProviderByID)
		public.GET("/providers/search", providerHandler.SearchProviders)
		public.GET("/providers/location", providerHandler.GetProvidersByLocation)
	}

	// Public Webhook
	router.POST("/api/v1/payments/webhook", paymentHandler.HandleWebhook)

	// Protected Routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		// Category Routes (admin dashboard)
		categories := protected.Group("/categories")
		{
			categories.POST("", middleware.RoleMiddleware("admin"), categoryHandler.CreateCategory)
			categories.GET("", categoryHandler.GetAllCategories)
			categories.GET("/stats", middleware.RoleMiddleware("admin"), categoryHandler.GetCategoryStats)
			categories.GET("/:id", categoryHandler.GetCategoryByID)
			categories.GET("/:id/services", categoryHandler.GetCategoryWithServices)
			categories.PUT("/:id", middleware.RoleMiddleware("admin"), categoryHandler.UpdateCategory)
			categories.DELETE("/:id", middleware.RoleMiddleware("admin"), categoryHandler.DeleteCategory)
		}

		// Service Routes
		services := protected.Group("/services")
		{
			services.POST("", middleware.RoleMiddleware("admin"), serviceHandler.CreateService)
			services.GET("", serviceHandler.GetAllServices)
			services.GET("/stats", middleware.RoleMiddleware("admin"), serviceHandler.GetServiceStats)
			services.GET("/search", serviceHandler.SearchServices)
			services.GET("/:id", serviceHandler.GetServiceByID)
			services.PUT("/:id", middleware.RoleMiddleware("admin"), serviceHandler.UpdateService)
			services.DELETE("/:id", middleware.RoleMiddleware("admin"), serviceHandler.DeleteService)
			services.POST("/:id/generate-description", middleware.RoleMiddleware("admin"), serviceHandler.GenerateDescription)
		}

		// Provider Routes
		providers := protected.Group("/providers")
		{
			providers.POST("", middleware.RoleMiddleware("provider", "admin"), providerHandler.CreateProvider)
			providers.GET("", providerHandler.GetAllProviders)
			providers.GET("/stats", middleware.RoleMiddleware("admin"), providerHandler.GetProviderStats)
			providers.GET("/search", providerHandler.SearchProviders)
			providers.GET("/location", providerHandler.GetProvidersByLocation)
			providers.GET("/user/:userId", providerHandler.GetProviderByUserID)
			providers.GET("/:id", providerHandler.GetProviderByID)
			providers.PUT("/:id", middleware.RoleMiddleware("provider", "admin"), providerHandler.UpdateProvider)
			providers.DELETE("/:id", middleware.RoleMiddleware("admin"), providerHandler.DeleteProvider)
			providers.POST("/:id/witnesses", middleware.RoleMiddleware("provider", "admin"), providerHandler.AddWitness)
			providers.DELETE("/:id/witnesses/:witnessId", middleware.RoleMiddleware("provider", "admin"), providerHandler.RemoveWitness)
		}

		// Client Routes
		clients := protected.Group("/clients")
		{
			clients.POST("", clientHandler.CreateClient)
			clients.GET("", middleware.RoleMiddleware("admin"), clientHandler.GetAllClients)
			clients.GET("/stats", middleware.RoleMiddleware("admin"), clientHandler.GetClientStats)
			clients.GET("/search", middleware.RoleMiddleware("admin"), clientHandler.SearchClients)
			clients.GET("/user/:userId", clientHandler.GetClientByUserID)
			clients.GET("/:id", clientHandler.GetClientByID)
			clients.PUT("/:id", clientHandler.UpdateClient)
			clients.DELETE("/:id", middleware.RoleMiddleware("admin"), clientHandler.DeleteClient)
			clients.POST("/:id/requests", clientHandler.AddServiceRequest)
			clients.PUT("/:id/requests/:requestId/status", clientHandler.UpdateServiceRequestStatus)
			clients.POST("/:id/ratings/:providerId", clientHandler.RateProvider)
		}

		// Media Routes
		protected.POST("/upload", middleware.RoleMiddleware("provider", "admin"), uploadHandler.UploadImage)

		// Payment Routes
		payments := protected.Group("/payments")
		{
			payments.POST("/create-intent", paymentHandler.CreatePaymentIntent)
		}
	}
}
