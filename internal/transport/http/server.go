package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/auth"
	"github.com/vovakirdan/skillhub/internal/config"
	"github.com/vovakirdan/skillhub/internal/store"
)

// NewServer builds the demo backend: the user and room service endpoints the
// client consumes, served from one process under /api.
func NewServer(authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(newIPRateLimiter(cfg.RateLimitPerMin).Middleware())

	router.GET("/health", healthHandler)

	authHandlers := NewAuthHandlers(authService, logger)
	userHandlers := NewUserHandlers(st, logger)
	roomHandlers := NewRoomHandlers(st, logger)
	directionHandlers := NewDirectionHandlers(st, logger)

	api := router.Group("/api")
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)
	api.GET("/directions", directionHandlers.ListDirections)

	protected := api.Group("")
	protected.Use(AuthMiddleware(authService, logger))
	{
		protected.GET("/auth/users/:id", userHandlers.GetUser)
		protected.PUT("/auth/users/:id", userHandlers.UpdateUser)
		protected.GET("/users", userHandlers.ListUsers)

		protected.POST("/directions", directionHandlers.CreateDirection)
		protected.DELETE("/directions/:id", directionHandlers.DeleteDirection)

		protected.GET("/rooms/users/:id", roomHandlers.UserRooms)
		protected.GET("/rooms/direction/:id", roomHandlers.RoomsByDirection)
		protected.POST("/rooms", roomHandlers.CreateRoom)
		protected.GET("/rooms/:id", roomHandlers.GetRoom)
		protected.DELETE("/rooms/:id", roomHandlers.DeleteRoom)
		protected.POST("/rooms/:id/join", roomHandlers.JoinRoom)
		protected.POST("/rooms/:id/leave", roomHandlers.LeaveRoom)
		protected.GET("/rooms/:id/members", roomHandlers.Members)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
