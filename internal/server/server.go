package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/article"
	"github.com/SergeyParamoshkin/articles/internal/config"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/metrics"
	"github.com/SergeyParamoshkin/articles/internal/pagination"
	"github.com/SergeyParamoshkin/articles/internal/ratelimit"
	"github.com/SergeyParamoshkin/articles/internal/reqlog"
	"github.com/SergeyParamoshkin/articles/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server runs the public API router and the diagnostics router on two
// listeners.
type Server struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	limiter *ratelimit.Limiter

	router chi.Router
	diag   chi.Router

	api     *http.Server
	diagSrv *http.Server
}

// New wires the routers. m may be nil, in which case requests are not
// measured and /metrics is not served.
func New(cfg config.Config, st store.Store, logger *zap.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
	if cfg.RateLimit.RPS > 0 {
		s.limiter = ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	service := article.NewService(st, pagination.New(cfg.Pagination.PerPage))
	s.router = s.routes(article.NewAPI(service))
	s.diag = s.diagRoutes()

	return s
}

func (s *Server) routes(api *article.API) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.cfg.HTTP.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(reqlog.Middleware(s.logger.Sugar()))
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(s.logger.Named("http")),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	if s.limiter != nil {
		r.Use(s.limiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
			if err := render.Render(w, r, errresponse.ErrTooManyRequests); err != nil {
				reqlog.FromContext(r.Context()).Errorw(err.Error())
			}
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if err := render.Render(w, r, errresponse.ErrNotFound); err != nil {
			reqlog.FromContext(r.Context()).Errorw(err.Error())
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("root.")); err != nil {
			reqlog.FromContext(r.Context()).Errorw(err.Error())
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			reqlog.FromContext(r.Context()).Errorw(err.Error())
		}
	})

	r.Route("/api", api.Routes)

	return r
}

func (s *Server) diagRoutes() chi.Router {
	r := chi.NewRouter()
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.logger.Error("failed to write health response", zap.Error(err))
		}
	})

	return r
}

// Router is the public API handler.
func (s *Server) Router() chi.Router {
	return s.router
}

// DiagRouter serves metrics and health checks.
func (s *Server) DiagRouter() chi.Router {
	return s.diag
}

// Run serves both listeners until ctx is cancelled or one of them fails,
// then shuts both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.api = &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}
	s.diagSrv = &http.Server{
		Addr:    s.cfg.HTTP.DiagAddr,
		Handler: s.diag,
	}

	if s.limiter != nil {
		go s.limiter.Run(ctx, time.Minute, 5*time.Minute)
	}

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{s.api, s.diagSrv} {
		srv := srv
		go func() {
			s.logger.Info("Server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		s.logger.Error("Server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(runErr, s.Stop(shutdownCtx))
}

// Stop gracefully shuts down both listeners.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	for _, srv := range []*http.Server{s.api, s.diagSrv} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
