package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/krushiiq/apiserver/config"
	"github.com/krushiiq/apiserver/internal/assistant"
	"github.com/krushiiq/apiserver/internal/auth"
	"github.com/krushiiq/apiserver/internal/db"
	"github.com/krushiiq/apiserver/internal/handlers"
	"github.com/krushiiq/apiserver/internal/logging"
	"github.com/krushiiq/apiserver/internal/mq"
	"github.com/krushiiq/apiserver/internal/openapi"
	"github.com/krushiiq/apiserver/internal/services"
	"github.com/krushiiq/apiserver/internal/storage"
	"github.com/krushiiq/apiserver/internal/store"
	"github.com/krushiiq/apiserver/internal/weather"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// APIPrefix is where the route table is mounted.
const APIPrefix = "/api"

const (
	defaultPort     = 5000
	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server, its router and the backends it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger

	gateway store.Gateway
	storage *storage.Storage
	events  *mq.MQ
}

// New wires every backend selected by cfg into the router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("SECRET_KEY is required")
	}

	s := &Server{logger: logger}
	if err := s.openBackends(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}

	model, err := assistant.New(ctx, cfg.AI)
	if err != nil {
		s.Close()
		return nil, err
	}
	if !model.Configured() {
		logger.Warn("gemini api key not configured; ai routes will answer 503")
	}

	var events services.EventPublisher
	if s.events != nil {
		events = mq.NewRecordPublisher(s.events, cfg.Events.Channel)
	}
	var archive services.ImageArchive
	if s.storage != nil {
		archive = s.storage
	}

	recorder := services.NewRecorder(store.NewAdvisoryRepository(s.gateway), events, logger)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))

	h := handlers.NewHandlers(handlers.Services{
		Users:     services.NewUserService(store.NewUserRepository(s.gateway), issuer),
		Advisory:  services.NewAdvisoryService(recorder, rng),
		Farmers:   services.NewFarmerService(store.NewFarmerRepository(s.gateway)),
		Weather:   services.NewWeatherService(weather.NewClient(cfg.Weather, logger)),
		Assistant: services.NewAssistantService(model, recorder, archive, logger),
	}, logger)

	router, err := newRouter(h, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.router = router

	port := cfg.ServerPort
	if port == 0 {
		port = defaultPort
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) openBackends(ctx context.Context, cfg config.Config) error {
	gw, err := db.OpenGateway(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s gateway: %w", cfg.Database.Driver, err)
	}
	s.gateway = gw

	archive, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	s.storage = archive

	bus, err := mq.Open(ctx, cfg.Events)
	if err != nil {
		return fmt.Errorf("open events: %w", err)
	}
	s.events = bus
	return nil
}

func newRouter(h *handlers.Handlers, logger *zap.Logger) (*chi.Mux, error) {
	doc := openapi.Build(handlers.Routes(), APIPrefix)
	docJSON, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("render openapi json: %w", err)
	}
	docYAML, err := doc.YAML()
	if err != nil {
		return nil, fmt.Errorf("render openapi yaml: %w", err)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(logger),
		recoverer(logger),
	)
	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	router.Get("/healthz", handlers.Health)
	router.Get("/openapi.json", serveDocument("application/json", docJSON))
	router.Get("/openapi.yaml", serveDocument("application/yaml", docYAML))
	router.Route(APIPrefix, h.Mount)
	return router, nil
}

func serveDocument(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

// recoverer turns a handler panic into a 500 envelope.
func recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic serving request",
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				handlers.WriteError(w, http.StatusInternalServerError, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Run serves until ctx ends or the process receives SIGINT/SIGTERM, then
// drains in-flight requests and closes every backend.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.Close()
	return err
}

// Close releases the gateway, storage and event backends. It is safe to
// call on a partially constructed Server.
func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.gateway != nil {
		if err := s.gateway.Close(ctx); err != nil {
			s.logger.Warn("close gateway", zap.Error(err))
		}
		s.gateway = nil
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			s.logger.Warn("close storage", zap.Error(err))
		}
		s.storage = nil
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			s.logger.Warn("close events", zap.Error(err))
		}
		s.events = nil
	}
}
