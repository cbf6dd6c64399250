// Package handler is the serverless entrypoint. The platform calls Handler
// for every invocation; the app, and with it the MongoDB connection, is
// built once per cold start.
package handler

import (
  "context"
  "fmt"
  "net/http"
  "sync"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/app/bootstrap"
  "github.com/ushakovn/cleanup/internal/config"
)

var (
  once     sync.Once
  app      *bootstrap.App
  setupErr error
)

func setup() {
  cfg, err := config.Load()
  if err != nil {
    setupErr = fmt.Errorf("config.Load: %w", err)
    return
  }

  if err = bootstrap.InitLogger(cfg); err != nil {
    setupErr = fmt.Errorf("bootstrap.InitLogger: %w", err)
    return
  }

  app, setupErr = bootstrap.NewApp(context.Background(), cfg)
}

func Handler(w http.ResponseWriter, r *http.Request) {
  once.Do(setup)

  if setupErr != nil {
    log.Errorf("serverless setup failed: %v", setupErr)

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusInternalServerError)
    _, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
    return
  }

  app.Handler.ServeHTTP(w, r)
}
