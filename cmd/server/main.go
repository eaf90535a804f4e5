package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freshharvest-be/internal/cart"
	"freshharvest-be/internal/catalog"
	"freshharvest-be/internal/config"
	"freshharvest-be/internal/db"
	"freshharvest-be/internal/discount"
	"freshharvest-be/internal/events"
	"freshharvest-be/internal/handler"
	"freshharvest-be/internal/logger"
	"freshharvest-be/internal/metrics"
	"freshharvest-be/internal/middleware"
	"freshharvest-be/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped with error", zap.Error(err))
	}
}

type server struct {
	handler   http.Handler
	limiter   *middleware.RateLimiter
	publisher events.Publisher
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newServer(cfg, database)
	defer func() {
		if err := s.publisher.Close(); err != nil {
			logger.L().Warn("failed to close event publisher", zap.Error(err))
		}
	}()
	go s.limiter.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           s.handler,
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server listening", zap.String("addr", srv.Addr))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newServer(cfg *config.Config, database *sql.DB) *server {
	reg := metrics.NewRegistry()
	for _, name := range metrics.Known {
		reg.Counter(name)
	}
	logger.L().Debug("metrics registered", zap.Strings("counters", reg.Names()))

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaOrderTopic)

	catalogRepo := catalog.NewRepository(database)
	cartSvc := cart.NewService(cart.NewRepository(database), catalogRepo, reg)
	orderSvc := order.NewService(
		order.NewRepository(database),
		discount.NewRepository(database),
		publisher,
		reg,
		order.Options{
			ApplyDiscountToTotal: cfg.ApplyDiscountToTotal,
			LockTimeout:          cfg.DBLockTimeout,
		},
	)

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	h := handler.New(cartSvc, orderSvc, reg)

	return &server{
		handler:   setupRouter(cfg, handler.NewRouter(h), limiter),
		limiter:   limiter,
		publisher: publisher,
	}
}

// setupRouter wraps the gin routes with the net/http middleware chain.
// Request ids are assigned first so every later log line carries one.
func setupRouter(cfg *config.Config, routes http.Handler, limiter *middleware.RateLimiter) http.Handler {
	var h http.Handler = routes
	h = limiter.Middleware(h)
	h = middleware.AuthMiddleware(cfg.JWTSecret)(h)
	h = middleware.CORS(cfg.CORSAllowedOrigin)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}
