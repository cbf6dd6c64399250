package bootstrap

import (
  "context"
  "fmt"
  "net/http"

  "github.com/go-resty/resty/v2"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/app/cleanup"
  "github.com/ushakovn/cleanup/internal/app/transport"
  "github.com/ushakovn/cleanup/internal/config"
  "github.com/ushakovn/cleanup/internal/deps/identity"
  "github.com/ushakovn/cleanup/internal/deps/identity/firebase"
  "github.com/ushakovn/cleanup/internal/deps/identity/toolkit"
  "github.com/ushakovn/cleanup/internal/deps/storage/mongodb"
  "github.com/ushakovn/cleanup/pkg/logger"
)

type App struct {
  Handler http.Handler
  Mongodb *mongodb.Provider
}

// InitLogger configures the global logger for the service.
func InitLogger(cfg *config.Config) error {
  err := logger.InitWithConfig(logger.Config{
    Fields: map[string]any{
      "app": "cleanup",
    },
    Level: cfg.LogLevel,
  })
  if err != nil {
    return fmt.Errorf("logger.InitWithConfig: %w", err)
  }
  return nil
}

// NewApp wires the service graph. MongoDB is not contacted until the first
// request needs it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
  provider := mongodb.NewProvider(
    mongodb.Config{
      URI: cfg.Mongodb.URI,
    },
    mongodb.Dependencies{
      Client: http.DefaultClient,
    })

  verifier, err := newVerifier(ctx, cfg.Auth)
  if err != nil {
    return nil, fmt.Errorf("newVerifier: %w", err)
  }

  service := cleanup.NewService(
    cleanup.Config{
      Database:  cfg.Mongodb.Database,
      Ownership: cfg.Auth.Ownership,
    },
    cleanup.Dependencies{
      Mongodb: cleanup.ProviderConnector(provider),
    })

  httpTransport := transport.NewTransport(
    transport.Config{
      AuthRequired: cfg.Auth.Required,
    },
    transport.Dependencies{
      Cleanup:  service,
      Verifier: verifier,
    })

  log.
    WithFields(log.Fields{
      "auth.provider":  cfg.Auth.Provider,
      "auth.required":  cfg.Auth.Required,
      "auth.ownership": cfg.Auth.Ownership,
      "auth.enabled":   verifier != nil,
    }).
    Info("cleanup app initialized")

  return &App{
    Handler: httpTransport.Handler(),
    Mongodb: provider,
  }, nil
}

func newVerifier(ctx context.Context, auth config.Auth) (identity.Verifier, error) {
  if !auth.Enabled() {
    log.Warn("identity provider is not configured: requests are anonymous")
    return nil, nil
  }

  switch auth.Provider {

  case config.AuthProviderFirebase:
    verifier, err := firebase.NewVerifier(ctx, firebase.Config{
      ServiceKey: auth.FirebaseServiceKey,
    })
    if err != nil {
      return nil, fmt.Errorf("firebase.NewVerifier: %w", err)
    }
    return verifier, nil

  case config.AuthProviderToolkit:
    verifier, err := toolkit.NewVerifier(
      toolkit.Config{
        APIKey: auth.FirebaseAPIKey,
      },
      toolkit.Dependencies{
        Client: resty.NewWithClient(http.DefaultClient),
      })
    if err != nil {
      return nil, fmt.Errorf("toolkit.NewVerifier: %w", err)
    }
    return verifier, nil
  }

  return nil, fmt.Errorf("unsupported auth provider: %s", auth.Provider)
}
