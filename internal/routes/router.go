package routes

import (
	"time"

	"todo-app/internal/controller"
	"todo-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     controller.Authenticator
	Verifier middleware.Verifier
	Todos    controller.Todos

	Limiter    middleware.RateLimiter
	RateLimit  int
	RateWindow time.Duration

	Checks   map[string]controller.Check
	Registry *prometheus.Registry
}

func Router(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	var metrics *middleware.Metrics
	if d.Registry != nil {
		metrics = middleware.NewMetrics(d.Registry)
		router.Use(metrics.Handler())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready(d.Checks))

	// Public: rate limited per client IP
	authCtl := controller.NewAuthController(d.Auth)
	authGroup := router.Group("/api/auth")
	authGroup.Use(middleware.RateLimit(d.Limiter, d.RateLimit, d.RateWindow, metrics))
	{
		authGroup.POST("/register", authCtl.Register)
		authGroup.POST("/login", authCtl.Login)
	}

	// Protected: JWT required
	todoCtl := controller.NewTodoController(d.Todos)
	api := router.Group("/api/todos")
	api.Use(middleware.AuthMiddleware(d.Verifier))
	{
		api.GET("", todoCtl.List())
		api.POST("", todoCtl.Create())
		api.GET("/stats", todoCtl.Stats())
		api.PUT("/:id", todoCtl.Update())
		api.DELETE("/:id", todoCtl.Delete())
	}

	return router
}
