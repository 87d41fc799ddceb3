package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"pharmabill/internal/handler"
	"pharmabill/internal/metrics"
	"pharmabill/internal/middleware"
)

// Options carries the optional pieces of the middleware stack. Nil fields
// are skipped.
type Options struct {
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; empty means the client IP is
	// always the connection's remote address.
	TrustedProxies []string
	// RateLimit guards /api/v1.
	RateLimit gin.HandlerFunc
	Metrics   *metrics.HTTP
	// Gatherer backs GET /metrics.
	Gatherer prometheus.Gatherer
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	pricingH *handler.PricingHandler,
	draftH *handler.DraftHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Warn().Err(err).Strs("trusted_proxies", opts.TrustedProxies).Msg("ignoring invalid trusted proxies")
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	if opts.RateLimit != nil {
		v1.Use(opts.RateLimit)
	}

	v1.POST("/pricing/quote", pricingH.Quote)

	drafts := v1.Group("/drafts")
	drafts.POST("", draftH.Create)
	drafts.GET("", draftH.List)
	drafts.GET("/:id", draftH.GetByID)
	drafts.PUT("/:id", draftH.UpdateHeader)
	drafts.DELETE("/:id", draftH.Delete)
	drafts.PUT("/:id/mode", draftH.SetMode)
	drafts.POST("/:id/lines", draftH.AddLine)
	drafts.PUT("/:id/lines/:lineId", draftH.UpdateLine)
	drafts.DELETE("/:id/lines/:lineId", draftH.RemoveLine)
	drafts.POST("/:id/finalize", draftH.Finalize)
	drafts.GET("/:id/export", draftH.Export)
	drafts.POST("/:id/publish", draftH.Publish)

	return r
}
