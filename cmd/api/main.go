package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/smartchat/backend/internal/config"
	"github.com/zhouzirui/smartchat/backend/internal/handler"
	"github.com/zhouzirui/smartchat/backend/internal/notify"
	"github.com/zhouzirui/smartchat/backend/internal/service/gateway"
	"github.com/zhouzirui/smartchat/backend/internal/store"
	"github.com/zhouzirui/smartchat/backend/internal/store/memory"
	"github.com/zhouzirui/smartchat/backend/internal/store/mongo"
	"github.com/zhouzirui/smartchat/backend/internal/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment only", zap.Error(envErr))
	}

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	var notifier notify.Notifier
	if cfg.Mail.Enabled() {
		mailer, err := notify.NewMailer(cfg.Mail, logger)
		if err != nil {
			logger.Fatal("failed to configure lead notifications", zap.Error(err))
		}
		notifier = mailer
		logger.Info("lead notifications enabled", zap.Strings("to", cfg.Mail.To))
	} else {
		logger.Info("SMTP not configured, lead notifications disabled")
	}

	gw := gateway.NewService(st, notifier, logger)
	router := handler.NewRouter(gw, cfg.Widget, cfg.Server.AllowedOrigins, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Debug() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath, logger)
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mongo.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase, logger)
	default:
		logger.Info("using in-memory store; records are lost on restart")
		return memory.New(), nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("smartchat gateway listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
