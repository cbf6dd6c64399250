package toolkit

import (
  "context"
  "encoding/json"
  "errors"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/go-resty/resty/v2"
  "github.com/ushakovn/cleanup/internal/models"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *Verifier {
  t.Helper()

  server := httptest.NewServer(handler)
  t.Cleanup(server.Close)

  verifier, err := NewVerifier(
    Config{APIKey: "test-key", BaseURL: server.URL},
    Dependencies{Client: resty.New()},
  )
  if err != nil {
    t.Fatalf("NewVerifier: %v", err)
  }
  return verifier
}

func TestVerify(t *testing.T) {
  verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != lookupPath {
      t.Errorf("unexpected path %q", r.URL.Path)
    }
    if r.URL.Query().Get("key") != "test-key" {
      t.Errorf("unexpected api key %q", r.URL.Query().Get("key"))
    }

    var req lookupRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
      t.Errorf("decode request: %v", err)
    }
    if req.IDToken != "good-token" {
      t.Errorf("unexpected token %q", req.IDToken)
    }

    w.Header().Set("Content-Type", "application/json")
    _, _ = w.Write([]byte(`{"users":[{"localId":"uid-1","email":"A@B.com","displayName":"Ann"}]}`))
  })

  identity, err := verifier.Verify(context.Background(), "good-token")
  if err != nil {
    t.Fatalf("verifier.Verify: %v", err)
  }
  if identity.UID != "uid-1" || identity.Email != "a@b.com" || identity.Name != "Ann" {
    t.Errorf("unexpected identity: %+v", identity)
  }
}

func TestVerifyInvalidToken(t *testing.T) {
  verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusBadRequest)
    _, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_ID_TOKEN"}}`))
  })

  _, err := verifier.Verify(context.Background(), "bad-token")
  if !errors.Is(err, models.ErrInvalidCredential) {
    t.Fatalf("expected ErrInvalidCredential, got %v", err)
  }
}

func TestVerifyProviderOutage(t *testing.T) {
  verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusServiceUnavailable)
  })

  _, err := verifier.Verify(context.Background(), "token")
  if err == nil {
    t.Fatal("expected error")
  }
  if errors.Is(err, models.ErrInvalidCredential) {
    t.Fatalf("provider outage must not be reported as invalid credential: %v", err)
  }
}

func TestVerifyUnknownUser(t *testing.T) {
  verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json")
    _, _ = w.Write([]byte(`{"users":[]}`))
  })

  _, err := verifier.Verify(context.Background(), "token")
  if !errors.Is(err, models.ErrInvalidCredential) {
    t.Fatalf("expected ErrInvalidCredential, got %v", err)
  }
}

func TestNewVerifierRequiresAPIKey(t *testing.T) {
  if _, err := NewVerifier(Config{}, Dependencies{Client: resty.New()}); err == nil {
    t.Fatal("expected error without api key")
  }
}
