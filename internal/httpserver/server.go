package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/answer-sessions/internal/auth"
	"github.com/PratikDhanave/answer-sessions/internal/config"
	"github.com/PratikDhanave/answer-sessions/internal/handlers"
	"github.com/PratikDhanave/answer-sessions/internal/telemetry"
)

// Store is the persistence the router needs: raw log access plus a readiness probe.
type Store interface {
	handlers.LogStore
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /metrics/prometheus
// Authenticated: /logs, /sessions, /analytics/*, /synthetic
func NewRouter(cfg config.Config, st Store, m *telemetry.Metrics, log *zap.Logger) (*gin.Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = telemetry.New()
	}

	genCfg, seed, err := cfg.GeneratorSettings()
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), m.Middleware())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics/prometheus", gin.WrapH(m.Handler()))

	deps := &handlers.Deps{
		Store:     st,
		Metrics:   m,
		Log:       log,
		Generator: genCfg,
		Seed:      seed,
	}

	// Auth group enforces tenant context via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys, log))

	handlers.RegisterLogRoutes(authGroup, deps)
	handlers.RegisterSessionRoutes(authGroup, deps)
	handlers.RegisterSyntheticRoutes(authGroup, deps)

	return r, nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
