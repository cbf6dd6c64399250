package toolkit

import (
  "context"
  "fmt"
  "net/http"

  "github.com/go-playground/validator/v10"
  "github.com/go-resty/resty/v2"
  "github.com/ushakovn/cleanup/internal/models"
  "github.com/ushakovn/cleanup/pkg/stringer"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com"

const lookupPath = "/v1/accounts:lookup"

type Config struct {
  APIKey  string `validate:"required"`
  BaseURL string `validate:"omitempty,url"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Dependencies struct {
  Client *resty.Client `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

// Verifier checks ID tokens with the Identity Toolkit accounts lookup
// endpoint. It needs only a web API key.
type Verifier struct {
  config Config
  deps   Dependencies
}

func NewVerifier(config Config, deps Dependencies) (*Verifier, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  if config.BaseURL == "" {
    config.BaseURL = DefaultBaseURL
  }

  return &Verifier{
    config: config,
    deps:   deps,
  }, nil
}

type lookupRequest struct {
  IDToken string `json:"idToken"`
}

type lookupResponse struct {
  Users []lookupUser `json:"users"`
}

type lookupUser struct {
  LocalID     string `json:"localId"`
  Email       string `json:"email"`
  DisplayName string `json:"displayName"`
  PhotoURL    string `json:"photoUrl"`
  Disabled    bool   `json:"disabled"`
}

type lookupError struct {
  Error struct {
    Code    int    `json:"code"`
    Message string `json:"message"`
  } `json:"error"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
  var (
    out    lookupResponse
    outErr lookupError
  )

  resp, err := v.deps.Client.R().
    SetContext(ctx).
    SetQueryParam("key", v.config.APIKey).
    SetBody(lookupRequest{IDToken: token}).
    SetResult(&out).
    SetError(&outErr).
    Post(v.config.BaseURL + lookupPath)

  if err != nil {
    return nil, fmt.Errorf("v.deps.Client.R().Post: %w", err)
  }

  if resp.IsError() {
    if resp.StatusCode() == http.StatusBadRequest {
      return nil, fmt.Errorf("%w: %s", models.ErrInvalidCredential, outErr.Error.Message)
    }
    return nil, fmt.Errorf("accounts lookup failed: status: %d: %s", resp.StatusCode(), outErr.Error.Message)
  }

  if len(out.Users) == 0 {
    return nil, fmt.Errorf("%w: token does not resolve to a user", models.ErrInvalidCredential)
  }
  user := out.Users[0]

  if user.Disabled {
    return nil, fmt.Errorf("%w: user is disabled", models.ErrInvalidCredential)
  }

  email := stringer.NormalizeEmail(user.Email)
  if email == "" {
    return nil, fmt.Errorf("%w: user has no email", models.ErrInvalidCredential)
  }

  return &models.Identity{
    UID:     user.LocalID,
    Email:   email,
    Name:    user.DisplayName,
    Picture: user.PhotoURL,
  }, nil
}
