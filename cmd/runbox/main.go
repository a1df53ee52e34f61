package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"runbox/internal/compile/controller"
	"runbox/internal/sandbox/engine"
	"runbox/internal/sandbox/observer"
	"runbox/internal/sandbox/profile"
	"runbox/internal/sandbox/runner"
	"runbox/internal/sandbox/scratch"
	"runbox/internal/sandbox/toolchain"
	"runbox/internal/server"
	"runbox/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	appCfg := loadAppConfig()

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	registry := profile.NewRegistry()
	jobRunner := runner.NewRunnerWithObserver(
		registry,
		toolchain.PathResolver{},
		engine.NewEngine(),
		scratch.NewManager(""),
		observer.LogMetricsRecorder{},
	)

	ctrl := controller.NewCompileController(registry, jobRunner)

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Handler: server.NewRouter(ctrl),
	}

	listener, err := net.Listen("tcp", appCfg.Addr())
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "server listening", zap.String("addr", appCfg.Addr()))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error(context.Background(), "graceful shutdown failed", zap.Error(err))
		}
	}
}
