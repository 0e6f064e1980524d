// Package server assembles the HTTP router: middleware chain, route groups
// and the collaborators behind the controllers.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskmanager-be/internal/cache"
	"taskmanager-be/internal/config"
	"taskmanager-be/internal/controllers"
	"taskmanager-be/internal/jwt"
	"taskmanager-be/internal/middleware"
	"taskmanager-be/internal/models"
	"taskmanager-be/internal/password"
	"taskmanager-be/internal/repository"
	"taskmanager-be/internal/service"
)

// Store groups the persistence collaborators
type Store struct {
	Users repository.UserRepository
	Tasks repository.TaskRepository
}

// Deps are the collaborators NewRouter wires together. Cache may be nil.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
	Store  Store
	Cache  cache.Cache
}

// NewRouter builds the gin engine serving the API
func NewRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	logger := deps.Logger

	models.RegisterValidation()

	// Initialize JWT service and password hasher
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())
	hasher := password.NewBcryptHasher(cfg.BcryptCost)

	// Initialize services
	authService, err := service.NewAuthService(deps.Store.Users, hasher, jwtService)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	taskService := service.NewTaskService(deps.Store.Tasks, deps.Cache, cfg.CacheTTL(), logger)

	// Initialize controllers
	authController := controllers.NewAuthController(authService, logger)
	taskController := controllers.NewTaskController(taskService, logger)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authRateLimiter := middleware.NewRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	router := gin.New()
	// With no trusted proxies ClientIP is the socket peer, so forwarded
	// headers cannot pick a fresh rate-limit bucket.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		metrics.Middleware(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		auth := api.Group("/auth")
		auth.Use(authRateLimiter.LimitMiddleware())
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		// Protected routes - require JWT authentication
		tasks := api.Group("/tasks")
		tasks.Use(middleware.AuthMiddleware(jwtService))
		{
			tasks.POST("", taskController.CreateTask)
			tasks.GET("", taskController.GetTasks)
			tasks.PUT("/:id", taskController.UpdateTask)
			tasks.DELETE("/:id", taskController.DeleteTask)
		}
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
