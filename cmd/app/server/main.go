package main

import (
  "context"
  "errors"
  "net"
  "net/http"
  "os"
  "os/signal"
  "syscall"
  "time"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/app/bootstrap"
  "github.com/ushakovn/cleanup/internal/config"
  "github.com/ushakovn/cleanup/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
  ctx := context.Background()

  logger.Init()

  cfg, err := config.Load()
  if err != nil {
    log.Fatalf("config.Load: %v", err)
  }

  if err = bootstrap.InitLogger(cfg); err != nil {
    log.Fatalf("bootstrap.InitLogger: %v", err)
  }

  app, err := bootstrap.NewApp(ctx, cfg)
  if err != nil {
    log.Fatalf("bootstrap.NewApp: %v", err)
  }

  server := &http.Server{
    Addr:              net.JoinHostPort("", cfg.Port),
    Handler:           app.Handler,
    ReadHeaderTimeout: 10 * time.Second,
    ReadTimeout:       30 * time.Second,
    WriteTimeout:      30 * time.Second,
    IdleTimeout:       2 * time.Minute,
  }

  go func() {
    log.WithField("port", cfg.Port).Warn("cleanup server starting")

    if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
      log.Fatalf("server.ListenAndServe: %v", err)
    }
  }()

  exitSignal := make(chan os.Signal, 1)
  signal.Notify(exitSignal, syscall.SIGINT, syscall.SIGTERM)
  <-exitSignal

  log.Warn("cleanup server terminating")

  shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
  defer cancel()

  if err = server.Shutdown(shutdownCtx); err != nil {
    log.Errorf("server.Shutdown: %v", err)
  }
  if err = app.Mongodb.Close(shutdownCtx); err != nil {
    log.Errorf("app.Mongodb.Close: %v", err)
  }
}
