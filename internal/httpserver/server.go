package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PratikDhanave/sms-wecom-relay/internal/auth"
	"github.com/PratikDhanave/sms-wecom-relay/internal/config"
	"github.com/PratikDhanave/sms-wecom-relay/internal/handlers"
	"github.com/PratikDhanave/sms-wecom-relay/internal/models"
	"github.com/PratikDhanave/sms-wecom-relay/internal/relay"
	"github.com/PratikDhanave/sms-wecom-relay/internal/store"
)

// NewRouter wires public endpoints and the authenticated relay.
// Public: GET /health, GET /ready, OPTIONS /*
// Authenticated: POST /*
// Everything else: 405
func NewRouter(cfg config.Config, svc *relay.Service, cache store.Cache, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(RequestID(), AccessLog(logger), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("request_id", c.GetString(requestIDKey)).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   fmt.Sprint(recovered),
		})
	}))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the cache backend is reachable when it can tell us.
	r.GET("/ready", func(c *gin.Context) {
		pinger, ok := cache.(store.Pinger)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": cfg.CacheDriver})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": cfg.CacheDriver})
	})

	handlers.RegisterPreflightRoutes(r)

	// Auth group enforces the bearer token.
	authGroup := r.Group("/")
	authGroup.Use(auth.BearerMiddleware(cfg.APIToken))

	handlers.RegisterForwardRoutes(authGroup, svc, logger)

	r.NoRoute(handlers.MethodNotAllowed)
	r.NoMethod(handlers.MethodNotAllowed)

	return r
}
