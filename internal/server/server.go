package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nvillagra/prodtrack/internal/assistant"
	"github.com/nvillagra/prodtrack/internal/config"
	"github.com/nvillagra/prodtrack/internal/connectivity"
	"github.com/nvillagra/prodtrack/internal/metrics"
	"github.com/nvillagra/prodtrack/internal/overview"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("listen", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	recordSvc   recorddomain.Service
	settings    settingsdomain.Store
	overviewSvc *overview.Service
	controller  *assistant.Controller
	checker     connectivity.Checker
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	RecordSvc   recorddomain.Service
	Settings    settingsdomain.Store
	OverviewSvc *overview.Service
	Controller  *assistant.Controller
	Checker     connectivity.Checker
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		recordSvc:   p.RecordSvc,
		settings:    p.Settings,
		overviewSvc: p.OverviewSvc,
		controller:  p.Controller,
		checker:     p.Checker,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/records", s.ListRecords)
	api.POST("/records", s.AddRecords)
	api.DELETE("/records/:id", s.DeleteRecord)

	api.GET("/settings", s.GetSettings)
	api.PUT("/settings", s.SaveSettings)
	api.POST("/settings/validate-key", s.ValidateAPIKey)

	api.POST("/chat", s.Chat)
	api.GET("/chat/transcript", s.Transcript)
	api.POST("/chat/reset", s.ResetChat)

	api.GET("/overview", s.GetOverview)
	api.GET("/export/csv", s.ExportCSV)
	api.GET("/backup", s.ExportBackup)
	api.POST("/backup", s.ImportBackup)

	api.GET("/status", s.Status)
}
