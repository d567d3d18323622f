// Package server exposes the HTTP surface of the roll-call bot: the slash
// command, the modal submission callback, and the events API callback.
package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zulandar/tenco/internal/rollcall"
)

// StartOpts holds configuration for the HTTP server.
type StartOpts struct {
	Service           *rollcall.Service
	VerificationToken string
	Port              int
	Out               io.Writer
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Service == nil {
		return fmt.Errorf("server: service is required")
	}
	if opts.VerificationToken == "" {
		return fmt.Errorf("server: verification token is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(opts.Service, opts.VerificationToken)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered. Split out
// from Start so tests can drive it directly.
func NewRouter(svc *rollcall.Service, verificationToken string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLog())
	registerRoutes(router, &handlers{svc: svc, token: verificationToken})
	return router
}

// requestLog records method, path, status, and duration of every request.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("server: %s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
