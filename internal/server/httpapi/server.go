// Package httpapi serves anonymous share-link downloads and the metrics
// endpoint over plain HTTP.
package httpapi

import (
	"context"
	"errors"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/ratelimit"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/validation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Downloader is the part of the share service the HTTP layer needs.
type Downloader interface {
	DownloadByToken(ctx context.Context, in validation.TokenInput) (*services.FileStream, error)
}

type HTTPServer struct {
	address  string
	share    Downloader
	logger   logging.Logger
	limiter  *ratelimit.ClientLimiter
	gatherer prometheus.Gatherer
}

// NewHTTPServer builds the public server. A nil gatherer disables /metrics.
func NewHTTPServer(a string, l logging.Logger, share Downloader, limiter *ratelimit.ClientLimiter, g prometheus.Gatherer) *HTTPServer {
	return &HTTPServer{
		address:  a,
		share:    share,
		logger:   l.With("module", "http_server"),
		limiter:  limiter,
		gatherer: g,
	}
}

// Handler returns the router.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/s/:token", s.rateLimit(), s.downloadShared)

	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func (s *HTTPServer) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func (s *HTTPServer) downloadShared(c *gin.Context) {
	ctx := c.Request.Context()

	fs, err := s.share.DownloadByToken(ctx, validation.TokenInput{Token: c.Param("token")})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid or expired link"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			s.logger.Error(ctx, "shared download failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	defer fs.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fs.Name})
	if disposition == "" {
		disposition = "attachment"
	}

	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, fs.Size, fs.MimeType, fs, map[string]string{
		"Content-Disposition": disposition,
		"Cache-Control":       "no-store",
	})
	s.logger.Debug(ctx, "shared download served", "file_id", fs.FileID, "size", strconv.FormatInt(fs.Size, 10))
}

// Serve handles requests on lis until ctx is cancelled.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}
