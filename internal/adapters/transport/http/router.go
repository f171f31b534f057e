package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oleksiikond/contactdeck/internal/adapters/transport/http/middleware"
)

type RouterOptions struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

func NewRouter(h *Handler, log *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept",
				"Authorization",
				"X-Requested-With",
			},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: opts.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/refresh-token", h.refreshToken)
	auth.GET("/confirmed_email/:token", h.confirmEmail)
	auth.POST("/request_email", h.requestEmail)

	users := api.Group("/users")
	users.GET("/me", h.authenticate, h.me)
	users.POST("/request_reset_password", h.requestResetPassword)
	users.GET("/reset_password/:token", h.resetPasswordForm)
	users.PATCH("/reset_password", h.resetPassword)
	users.DELETE("/:id", h.authenticate, h.requireAdmin, h.deleteUser)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	return router
}
