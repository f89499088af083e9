// Package web assembles the HTTP API.
package web

import (
	"fmt"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/metrics"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/common"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/attendances"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/batchmates"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/events"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/health"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/handlers/notifications"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/web/middlewares"
	"github.com/gin-gonic/gin"
)

type Options struct {
	// JWTSecret verifies bearer tokens; when empty they are ignored.
	JWTSecret []byte
	// CheckInRate and CheckInBurst limit the public check-in endpoints per client.
	CheckInRate  float64
	CheckInBurst int
	// TrustedProxies may set the client address through X-Forwarded-For.
	// When empty the connection's remote address is always used.
	TrustedProxies []string
}

// NewRouter serves every resource under /api.
func NewRouter(h *common.Handler, opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), middlewares.RequestLog())

	started := time.Now()
	r.GET("/health", health.Handler(started))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(middlewares.Actor(opts.JWTSecret))
	{
		api.GET("/health", health.Handler(started))
		batchmates.Register(api, h)
		events.Register(api, h)
		attendances.Register(api, h, middlewares.RateLimit(opts.CheckInRate, opts.CheckInBurst))
		notifications.Register(api, h)
	}

	return r, nil
}
