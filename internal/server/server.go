package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/railzwaylabs/invoicefmt/internal/invoiceformat/service"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterSystemRoutes()
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)

// FormatterFactory builds the formatter of a stored invoice.
type FormatterFactory interface {
	Create(ctx context.Context, invoiceID snowflake.ID, locale string) (*service.Formatter, error)
}

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	Engine     *gin.Engine
	DB         *gorm.DB               `optional:"true"`
	Redis      *redis.Client          `optional:"true"`
	Metrics    *observability.Metrics `optional:"true"`
	Formatters *service.Factory
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	engine     *gin.Engine
	db         *gorm.DB
	redis      *redis.Client
	metrics    *observability.Metrics
	formatters FormatterFactory
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:        p.Config,
		log:        p.Log.Named("server"),
		engine:     p.Engine,
		db:         p.DB,
		redis:      p.Redis,
		metrics:    p.Metrics,
		formatters: p.Formatters,
	}
}

// NewEngine returns a gin engine with panic recovery and request logging.
func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log.Named("http")))
	return engine
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterSystemRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/ready", s.GetSystemReadiness)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")
	v1.GET("/invoices/:id/render", s.RenderInvoice)
}

// RunHTTP serves the engine for the lifetime of the fx app.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			s.log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an X-Request-ID, reusing the caller's when present.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
