// Package api serves decoded FCS data sets over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/flowfairy/internal/logger"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

// DefaultMaxUploadBytes caps an upload body when Config leaves it unset.
const DefaultMaxUploadBytes = 256 << 20

type Config struct {
	// MaxUploadBytes caps the request body of an upload.
	MaxUploadBytes int64
	// UploadRate is the sustained number of uploads per second across all
	// clients. Zero disables limiting.
	UploadRate  float64
	UploadBurst int
	// LenientKeywords accepts keywords outside the FCS 3.x vocabulary.
	LenientKeywords bool
	Logger          logger.Logger
}

type Server struct {
	store     *DatasetStore
	log       logger.Logger
	limiter   *rate.Limiter
	maxUpload int64
	opts      []fcs.Option
	clock     func() time.Time
}

func NewServer(store *DatasetStore, cfg Config) *Server {
	if store == nil {
		store = NewDatasetStore()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	var limiter *rate.Limiter
	if cfg.UploadRate > 0 {
		burst := max(cfg.UploadBurst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.UploadRate), burst)
	}

	opts := []fcs.Option{fcs.WithLogger(log)}
	if cfg.LenientKeywords {
		opts = append(opts, fcs.WithLenientKeywords())
	}

	return &Server{
		store:     store,
		log:       log,
		limiter:   limiter,
		maxUpload: maxUpload,
		opts:      opts,
		clock:     time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/datasets", s.handleCreateDataset, s.rateLimit)
	e.GET("/v1/datasets", s.handleListDatasets)
	e.GET("/v1/datasets/:id", s.handleGetDataset)
	e.DELETE("/v1/datasets/:id", s.handleDeleteDataset)
	e.GET("/v1/datasets/:id/keywords", s.handleKeywords)
	e.GET("/v1/datasets/:id/parameters/:index/events", s.handleEvents)
}

// rateLimit rejects requests once the shared upload budget is spent.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if s.limiter != nil && !s.limiter.Allow() {
			s.log.Warn("upload rate limited", "remote", c.Request().RemoteAddr)
			return writeError(c, http.StatusTooManyRequests, errTypeRateLimited, "too many uploads, retry later", "")
		}
		return next(c)
	}
}
