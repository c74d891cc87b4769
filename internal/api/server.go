package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 65 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultRequestTimeout  = 60 * time.Second
	defaultRateLimitPerSec = 20
	defaultRateLimitBurst  = 40
)

// NewServer builds an *echo.Echo wired with the ambient middleware stack
// (panic recovery, request logging, rate limiting, timeout, CORS) and the
// sync/results/health routes, but does not start listening.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	e.HTTPErrorHandler = errorHandler

	e.Use(panicRecovery())
	e.Use(middleware.RequestID())
	e.Use(httpLogger)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(defaultRateLimitPerSec)))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: defaultRequestTimeout}))
	e.Use(middleware.CORS())

	registerRoutes(e, h)
	return e
}

func registerRoutes(e *echo.Echo, h *Handler) {
	e.POST("/sync/run", h.RunSyncAll)
	e.POST("/sync/run/:artist_name", h.RunSyncArtist)
	e.GET("/sync/results", h.ListResults)
	e.GET("/sync/results/:id", h.GetResult)
	e.GET("/sync/crawled", h.ListCrawledData)
	e.GET("/health/", h.Health)
	e.GET("/health", h.Health)
}
