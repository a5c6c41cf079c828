package server

import (
	"context"
	"log/slog"
	"net/http"

	"where-to-watch-service/internal/cache"
	"where-to-watch-service/internal/canonical"
	"where-to-watch-service/internal/config"
	httpserver "where-to-watch-service/internal/http"
	"where-to-watch-service/internal/logging"
	"where-to-watch-service/internal/metrics"
	"where-to-watch-service/internal/resolver"
	"where-to-watch-service/internal/upstream"
	"where-to-watch-service/internal/upstream/justwatch"
	"where-to-watch-service/internal/upstream/tmdb"
)

var metricsSetup = metrics.Setup

// Server owns the wired dependency graph: metrics, cache, upstream clients,
// the resolution pipeline, and the HTTP listeners.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	cacheStore    *cache.Store
	resolver      *resolver.Resolver
	refresher     *canonical.Refresher
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)
	store := buildCache(ctx, cfg, logger, recorder)
	loader := canonical.NewLoader(cfg.Cache.ProviderMapPath, logger)
	res := buildResolver(cfg, logger, recorder, store, loader)
	httpSrv := buildHTTPServer(cfg, res, store, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		cacheStore:    store,
		resolver:      res,
		refresher:     canonical.NewRefresher(loader, logger, cfg.Cache.ProviderMapRefresh),
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
	}
}

func buildCache(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *cache.Store {
	client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
	if err != nil {
		logging.Warn(logger, "cache backend unavailable, running uncached", slog.Any("err", err))
		return cache.NewStore(nil, cfg.Cache.Namespace, logger, recorder)
	}
	return cache.NewStore(client, cfg.Cache.Namespace, logger, recorder)
}

func buildResolver(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, store *cache.Store, loader *canonical.Loader) *resolver.Resolver {
	identity := tmdb.NewClient(tmdb.Config{
		BaseURL:    cfg.TMDB.BaseURL,
		APIKey:     cfg.TMDB.APIKey,
		HTTPClient: upstream.NewHTTPClient(),
	})
	offersDoer := upstream.NewRetryingDoer(upstream.NewHTTPClient(), justwatch.UpstreamName, logger, recorder, 0)
	offersClient := justwatch.NewClient(justwatch.Config{
		BaseURL:    cfg.JustWatch.BaseURL,
		HTTPClient: offersDoer,
	})

	return resolver.New(resolver.Config{
		Identity:      identity,
		Offers:        offersClient,
		Cache:         store,
		Canonical:     loader,
		Logger:        logger,
		Metrics:       recorder,
		StandardTTL:   cfg.Cache.TTL,
		ShortTTL:      cfg.Cache.ErrorTTL,
		DefaultLocale: cfg.DefaultLocale,
		Language:      cfg.JustWatch.Language,
	})
}

func buildHTTPServer(cfg config.Config, res *resolver.Resolver, store *cache.Store, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := httpserver.NewHandler(res, store, cfg.AdminToken, logger)
	router := httpserver.NewRouter(handler)
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := httpserver.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any("err", err))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

// Run starts the HTTP and metrics servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.refresher != nil {
		s.refresher.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.refresher != nil {
		if err := s.refresher.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("refresher stop failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
