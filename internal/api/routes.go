package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pourrice/pourrice/internal/auth"
	"github.com/pourrice/pourrice/internal/ratelimit"
	"github.com/pourrice/pourrice/pkg/logger"
)

type WebSocketHandler interface {
	HandleWebSocket(c *gin.Context)
}

type RouterDeps struct {
	Handler        *Handler
	Feed           WebSocketHandler
	Auth           *auth.Middleware
	RateLimit      *ratelimit.Middleware
	Logger         logger.Logger
	AllowedOrigins []string
}

func SetupRoutes(r *gin.Engine, d RouterDeps) {
	// Apply global middleware
	r.Use(RecoveryMiddleware(d.Logger))
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(d.Logger))
	r.Use(CORSMiddleware(d.AllowedOrigins))

	api := r.Group("/api")
	{
		// Health check (no rate limit)
		api.GET("/health", d.Handler.Health)

		limited := api.Group("")
		limited.Use(d.RateLimit.IPRateLimit())
		limited.Use(d.Auth.Optional())
		{
			restaurants := limited.Group("/restaurants")
			{
				restaurants.GET("", d.Handler.ListRestaurants)
				restaurants.GET("/featured", d.Handler.FeaturedRestaurants)
				restaurants.GET("/nearby", d.RateLimit.NearbyRateLimit(), d.Handler.NearbyRestaurants)
				restaurants.GET("/:id", d.Handler.GetRestaurant)
			}

			limited.POST("/assistant/ask", d.Auth.Required(), d.Handler.Ask)
			limited.GET("/stats", d.Handler.Stats)
		}
	}

	// WebSocket route
	r.GET("/ws/nearby", d.Feed.HandleWebSocket)
}
