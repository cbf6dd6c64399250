package config

import (
  "errors"
  "fmt"
  "io/fs"

  "github.com/go-playground/validator/v10"
  "github.com/joho/godotenv"
  "github.com/ushakovn/cleanup/internal/models"
  "github.com/ushakovn/cleanup/pkg/env"
)

const (
  DefaultPort     = "5000"
  DefaultDatabase = "community-clean-db"
)

type AuthProvider = string

const (
  AuthProviderFirebase AuthProvider = "firebase"
  AuthProviderToolkit  AuthProvider = "toolkit"
)

type Config struct {
  Port     string `validate:"required,numeric"`
  LogLevel string `validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
  Mongodb  Mongodb
  Auth     Auth
}

type Mongodb struct {
  URI      string `validate:"required"`
  Database string `validate:"required"`
}

type Auth struct {
  Required  bool
  Ownership models.OwnershipPolicy `validate:"required,oneof=scoped open"`
  Provider  AuthProvider           `validate:"required,oneof=firebase toolkit"`

  FirebaseServiceKey string `validate:"omitempty,base64"`
  FirebaseAPIKey     string
}

// Enabled reports whether a verifier is configured for the chosen provider.
func (a *Auth) Enabled() bool {
  switch a.Provider {
  case AuthProviderFirebase:
    return a.FirebaseServiceKey != ""
  case AuthProviderToolkit:
    return a.FirebaseAPIKey != ""
  }
  return false
}

// NeedsIdentity reports whether some route can not be served anonymously.
func (a *Auth) NeedsIdentity() bool {
  return a.Required || a.Ownership == models.OwnershipScoped
}

func (c *Config) Validate() error {
  if err := validator.New().Struct(c); err != nil {
    return err
  }
  if c.Auth.NeedsIdentity() && !c.Auth.Enabled() {
    return fmt.Errorf("auth provider %s is not configured but authentication is needed", c.Auth.Provider)
  }
  return nil
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
  if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
    return nil, fmt.Errorf("godotenv.Load: %w", err)
  }

  required, err := env.Bool("AUTH_REQUIRED", false)
  if err != nil {
    return nil, fmt.Errorf("env.Bool: %w", err)
  }

  config := &Config{
    Port:     env.String("PORT", DefaultPort),
    LogLevel: env.String("LOG_LEVEL", ""),
    Mongodb: Mongodb{
      URI:      env.String("MONGO_URI", ""),
      Database: env.String("MONGO_DATABASE", DefaultDatabase),
    },
    Auth: Auth{
      Required:           required,
      Ownership:          env.String("OWNERSHIP_POLICY", models.OwnershipScoped),
      Provider:           env.String("AUTH_PROVIDER", AuthProviderFirebase),
      FirebaseServiceKey: env.String("FIREBASE_SERVICE_KEY", ""),
      FirebaseAPIKey:     env.String("FIREBASE_API_KEY", ""),
    },
  }

  if err = config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  return config, nil
}
