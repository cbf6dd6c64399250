package firebase

import (
  "context"
  "encoding/base64"
  "fmt"
  "strings"

  firebase "firebase.google.com/go/v4"
  "firebase.google.com/go/v4/auth"
  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
  "github.com/ushakovn/cleanup/internal/models"
  "github.com/ushakovn/cleanup/pkg/stringer"
  "google.golang.org/api/option"
)

type Config struct {
  // ServiceKey is the base64 encoded service account JSON.
  ServiceKey string `validate:"required,base64"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Verifier struct {
  auth *auth.Client
}

func NewVerifier(ctx context.Context, config Config) (*Verifier, error) {
  config.ServiceKey = strings.TrimSpace(config.ServiceKey)

  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  credentials, err := base64.StdEncoding.DecodeString(config.ServiceKey)
  if err != nil {
    return nil, fmt.Errorf("base64.StdEncoding.DecodeString: %w", err)
  }

  app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credentials))
  if err != nil {
    return nil, fmt.Errorf("firebase.NewApp: %w", err)
  }

  client, err := app.Auth(ctx)
  if err != nil {
    return nil, fmt.Errorf("app.Auth: %w", err)
  }

  log.Info("firebase auth client initialized successfully")

  return &Verifier{auth: client}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
  decoded, err := v.auth.VerifyIDToken(ctx, token)
  if err != nil {
    return nil, fmt.Errorf("%w: v.auth.VerifyIDToken: %v", models.ErrInvalidCredential, err)
  }

  return identityFromClaims(decoded.UID, decoded.Claims)
}

func identityFromClaims(uid string, claims map[string]any) (*models.Identity, error) {
  email := stringer.NormalizeEmail(cast.ToString(claims["email"]))

  if email == "" {
    return nil, fmt.Errorf("%w: token has no email claim", models.ErrInvalidCredential)
  }

  return &models.Identity{
    UID:     uid,
    Email:   email,
    Name:    cast.ToString(claims["name"]),
    Picture: cast.ToString(claims["picture"]),
  }, nil
}
