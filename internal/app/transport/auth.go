package transport

import (
  "errors"
  "fmt"
  "net/http"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/deps/identity"
  "github.com/ushakovn/cleanup/internal/models"
)

type access int

const (
  // accessProtected needs a caller only when authentication is required.
  accessProtected access = iota
  // accessOwner also needs a caller whenever issue ownership is scoped.
  accessOwner
)

type authHandler func(w http.ResponseWriter, r *http.Request, caller *models.Identity)

// authenticated verifies the bearer token before the handler runs and passes
// the caller explicitly. A nil caller means an anonymous request.
func (t *Transport) authenticated(level access, handler authHandler) http.HandlerFunc {
  return func(w http.ResponseWriter, r *http.Request) {
    caller, err := t.authenticate(r)

    if err != nil {
      if !errors.Is(err, models.ErrMissingCredential) || t.callerRequired(level) {
        writeError(w, r, err)
        return
      }
      caller = nil
    }

    if caller != nil {
      log.
        WithField("request_id", requestID(r)).
        WithField("caller.uid", caller.UID).
        Debug("request authenticated")
    }

    handler(w, r, caller)
  }
}

func (t *Transport) callerRequired(level access) bool {
  if t.config.AuthRequired {
    return true
  }
  return level == accessOwner && t.deps.Cleanup.OwnershipScoped()
}

func (t *Transport) authenticate(r *http.Request) (*models.Identity, error) {
  token, err := identity.ParseBearer(r.Header.Get("Authorization"))
  if err != nil {
    return nil, err
  }

  if t.deps.Verifier == nil {
    return nil, fmt.Errorf("%w: authentication is disabled", models.ErrMissingCredential)
  }

  return t.deps.Verifier.Verify(r.Context(), token)
}
