// Package server exposes the dataset snapshot read-only over HTTP for the
// dashboard.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/amishk599/jobpulse/internal/analytics"
	"github.com/amishk599/jobpulse/internal/dataset"
	"github.com/amishk599/jobpulse/internal/filter"
	"github.com/amishk599/jobpulse/internal/model"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	DatasetPath string
	StaticDir   string // empty disables static file serving
}

// Server serves the dataset and its aggregates. The file is re-read on every
// request so a fresh snapshot is visible as soon as it is renamed into place.
type Server struct {
	opts   Options
	engine *gin.Engine
	logger *slog.Logger
}

// New builds the gin engine and registers every route.
func New(opts Options, logger *slog.Logger) *Server {
	s := &Server{opts: opts, engine: gin.New(), logger: logger}

	s.engine.Use(gin.Recovery(), s.requestLogger(), noCache())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
	}))

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/jobs", s.jobs)
		api.GET("/summary", s.summary)
		api.GET("/sentiment", s.sentiment)
	}
	s.engine.GET("/dataset.csv", s.datasetFile)

	if opts.StaticDir != "" {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(opts.StaticDir))))
	}
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard server listening", "addr", addr, "dataset", s.opts.DatasetPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down dashboard server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loadJobs reads the snapshot and writes the error response itself when it
// cannot. ok is false in that case.
func (s *Server) loadJobs(c *gin.Context) ([]model.Job, bool) {
	jobs, err := dataset.Load(s.opts.DatasetPath)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		return nil, false
	}
	if err != nil {
		s.logger.Error("loading dataset failed", "path", s.opts.DatasetPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dataset unreadable"})
		return nil, false
	}
	return jobs, true
}

func (s *Server) jobs(c *gin.Context) {
	jobs, ok := s.loadJobs(c)
	if !ok {
		return
	}
	criteria := filter.Criteria{
		Category:   c.Query("category"),
		Experience: c.Query("experience"),
		WorkType:   c.Query("work_type"),
		Location:   c.Query("location"),
		Keyword:    c.Query("q"),
	}
	if !criteria.IsZero() {
		jobs = filter.Apply(filter.NewFieldFilter(criteria), jobs)
	}

	views := make([]jobView, len(jobs))
	for i, j := range jobs {
		views[i] = toView(j)
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) summary(c *gin.Context) {
	jobs, ok := s.loadJobs(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(jobs))
}

func (s *Server) sentiment(c *gin.Context) {
	jobs, ok := s.loadJobs(c)
	if !ok {
		return
	}
	companies := analytics.ByCompany(jobs)
	if companies == nil {
		companies = []analytics.CompanySentiment{}
	}
	c.JSON(http.StatusOK, companies)
}

// datasetFile serves the raw CSV, brotli-compressed when the client accepts it.
func (s *Server) datasetFile(c *gin.Context) {
	f, err := os.Open(s.opts.DatasetPath)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		return
	}
	if err != nil {
		s.logger.Error("opening dataset failed", "path", s.opts.DatasetPath, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	defer f.Close()

	c.Header("Vary", "Accept-Encoding")
	if !acceptsBrotli(c.GetHeader("Accept-Encoding")) {
		info, err := f.Stat()
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Header("Content-Type", "text/csv; charset=utf-8")
		http.ServeContent(c.Writer, c.Request, "dataset.csv", info.ModTime(), f)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Encoding", "br")
	c.Status(http.StatusOK)
	bw := brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression)
	if _, err := io.Copy(bw, f); err != nil {
		s.logger.Warn("streaming dataset failed", "error", err)
	}
	if err := bw.Close(); err != nil {
		s.logger.Warn("closing brotli stream failed", "error", err)
	}
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "br") {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}
