package identity

import (
  "context"
  "fmt"
  "strings"

  "github.com/ushakovn/cleanup/internal/models"
)

const bearerScheme = "Bearer"

// Verifier resolves a bearer token into the identity it was issued for.
type Verifier interface {
  Verify(ctx context.Context, token string) (*models.Identity, error)
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
  header = strings.TrimSpace(header)

  if header == "" {
    return "", models.ErrMissingCredential
  }

  scheme, token, ok := strings.Cut(header, " ")
  if !ok || !strings.EqualFold(scheme, bearerScheme) {
    return "", fmt.Errorf("%w: authorization header must use %s scheme", models.ErrInvalidCredential, bearerScheme)
  }

  token = strings.TrimSpace(token)
  if token == "" {
    return "", fmt.Errorf("%w: empty bearer token", models.ErrInvalidCredential)
  }

  return token, nil
}
