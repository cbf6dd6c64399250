package transport

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"
  "time"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/app/cleanup"
  "github.com/ushakovn/cleanup/internal/app/cleanup/cleanuptest"
  "github.com/ushakovn/cleanup/internal/models"
)

type fakeVerifier map[string]*models.Identity

func (v fakeVerifier) Verify(_ context.Context, token string) (*models.Identity, error) {
  caller, ok := v[token]
  if !ok {
    return nil, fmt.Errorf("%w: unknown token", models.ErrInvalidCredential)
  }
  return caller, nil
}

var verifier = fakeVerifier{
  "owner-token":    {UID: "owner", Email: "owner@example.com", Name: "Owner"},
  "stranger-token": {UID: "stranger", Email: "stranger@example.com"},
}

type testEnv struct {
  handler http.Handler
  storage *cleanuptest.Storage
}

func setupTransport(t *testing.T, config Config, ownership models.OwnershipPolicy) *testEnv {
  t.Helper()

  storage := cleanuptest.NewStorage()

  service := cleanup.NewService(
    cleanup.Config{Database: "community-clean-db", Ownership: ownership},
    cleanup.Dependencies{Mongodb: storage.Connector()},
  )

  transport := NewTransport(config, Dependencies{
    Cleanup:  service,
    Verifier: verifier,
  })

  return &testEnv{
    handler: transport.Handler(),
    storage: storage,
  }
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
  t.Helper()

  req := httptest.NewRequest(method, path, strings.NewReader(body))
  req.Header.Set("Content-Type", "application/json")

  if token != "" {
    req.Header.Set("Authorization", "Bearer "+token)
  }

  rec := httptest.NewRecorder()
  e.handler.ServeHTTP(rec, req)

  return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
  t.Helper()

  var out T
  if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
    t.Fatalf("invalid JSON: %v\nbody: %s", err, rec.Body.String())
  }
  return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
  t.Helper()

  if rec.Code != code {
    t.Fatalf("expected status %d, got %d: %s", code, rec.Code, rec.Body.String())
  }
}

func createIssue(t *testing.T, env *testEnv, token, body string) string {
  t.Helper()

  rec := env.do(t, http.MethodPost, "/models", token, body)
  expectStatus(t, rec, http.StatusOK)

  res := decode[struct {
    Acknowledged bool   `json:"acknowledged"`
    InsertedID   string `json:"insertedId"`
  }](t, rec)

  if !res.Acknowledged || res.InsertedID == "" {
    t.Fatalf("unexpected insert response: %s", rec.Body.String())
  }
  return res.InsertedID
}

func TestIssueRoundTrip(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)
  before := time.Now().Add(-time.Second)

  id := createIssue(t, env, "", `{"title":"litter on 5th"}`)

  rec := env.do(t, http.MethodGet, "/models/"+id, "", "")
  expectStatus(t, rec, http.StatusOK)

  issue := decode[struct {
    ID     string    `json:"_id"`
    Title  string    `json:"title"`
    Status string    `json:"status"`
    Date   time.Time `json:"date"`
  }](t, rec)

  if issue.ID != id || issue.Title != "litter on 5th" || issue.Status != "ongoing" {
    t.Errorf("unexpected issue: %+v", issue)
  }
  if issue.Date.Before(before) || time.Since(issue.Date) > time.Minute {
    t.Errorf("date %v is not close to the request time", issue.Date)
  }
}

func TestListIssues(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  rec := env.do(t, http.MethodGet, "/models", "", "")
  expectStatus(t, rec, http.StatusOK)

  if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
    t.Errorf("expected empty list, got %s", body)
  }

  createIssue(t, env, "", `{"title":"older"}`)
  createIssue(t, env, "", `{"title":"newer"}`)

  rec = env.do(t, http.MethodGet, "/models", "", "")
  expectStatus(t, rec, http.StatusOK)

  issues := decode[[]struct {
    Title string    `json:"title"`
    Date  time.Time `json:"date"`
  }](t, rec)

  if len(issues) != 2 {
    t.Fatalf("expected 2 issues, got %d", len(issues))
  }
  if issues[0].Date.Before(issues[1].Date) {
    t.Errorf("issues are not ordered newest first: %+v", issues)
  }
}

func TestContributionEndToEnd(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  rec := env.do(t, http.MethodPost, "/mycontribution", "", `{"issueId":"X","email":"a@b.com"}`)
  expectStatus(t, rec, http.StatusOK)

  rec = env.do(t, http.MethodGet, "/mycontribution?email=a@b.com", "", "")
  expectStatus(t, rec, http.StatusOK)

  contributions := decode[[]map[string]any](t, rec)
  if len(contributions) != 1 {
    t.Fatalf("expected 1 contribution, got %d", len(contributions))
  }
  if contributions[0]["issueId"] != "X" || contributions[0]["email"] != "a@b.com" {
    t.Errorf("unexpected contribution: %v", contributions[0])
  }

  rec = env.do(t, http.MethodGet, "/mycontribution/X", "", "")
  expectStatus(t, rec, http.StatusOK)

  if byIssue := decode[[]map[string]any](t, rec); len(byIssue) != 1 {
    t.Errorf("expected 1 contribution for issue X, got %d", len(byIssue))
  }
}

func TestContributionRequiresEmail(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  rec := env.do(t, http.MethodPost, "/mycontribution", "", `{"issueId":"X"}`)
  expectStatus(t, rec, http.StatusBadRequest)

  if res := decode[errorResponse](t, rec); res.Error == "" {
    t.Error("expected error message")
  }
}

func TestEmailQueryRequired(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  expectStatus(t, env.do(t, http.MethodGet, "/mycontribution", "", ""), http.StatusBadRequest)
  expectStatus(t, env.do(t, http.MethodGet, "/myissues", "", ""), http.StatusBadRequest)
  expectStatus(t, env.do(t, http.MethodGet, "/myissues?email=a@b.com", "", ""), http.StatusOK)
}

func TestAuthRequired(t *testing.T) {
  env := setupTransport(t, Config{AuthRequired: true}, models.OwnershipScoped)

  rec := env.do(t, http.MethodPost, "/models", "", `{"title":"x"}`)
  expectStatus(t, rec, http.StatusUnauthorized)

  rec = env.do(t, http.MethodPost, "/models", "forged-token", `{"title":"x"}`)
  expectStatus(t, rec, http.StatusUnauthorized)

  rec = env.do(t, http.MethodPost, "/mycontribution", "", `{"issueId":"X","email":"a@b.com"}`)
  expectStatus(t, rec, http.StatusUnauthorized)

  if docs := env.storage.Documents(models.IssuesCollection); len(docs) != 0 {
    t.Errorf("rejected requests must not write, got %d issues", len(docs))
  }
  if docs := env.storage.Documents(models.ContributionsCollection); len(docs) != 0 {
    t.Errorf("rejected requests must not write, got %d contributions", len(docs))
  }

  expectStatus(t, env.do(t, http.MethodGet, "/models", "", ""), http.StatusOK)
  expectStatus(t, env.do(t, http.MethodGet, "/stats", "", ""), http.StatusOK)

  id := createIssue(t, env, "owner-token", `{"title":"x"}`)

  issue := decode[map[string]any](t, env.do(t, http.MethodGet, "/models/"+id, "", ""))
  if issue["email"] != "owner@example.com" {
    t.Errorf("expected owner email, got %v", issue["email"])
  }
}

func TestOptionalAuthRejectsInvalidToken(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  rec := env.do(t, http.MethodPost, "/models", "forged-token", `{"title":"x"}`)
  expectStatus(t, rec, http.StatusUnauthorized)

  rec = env.do(t, http.MethodGet, "/models", "forged-token", "")
  expectStatus(t, rec, http.StatusOK)
}

func TestOwnerScopedMutations(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipScoped)

  id := createIssue(t, env, "owner-token", `{"title":"bench"}`)

  rec := env.do(t, http.MethodPut, "/models/"+id, "", `{"status":"ended"}`)
  expectStatus(t, rec, http.StatusUnauthorized)

  rec = env.do(t, http.MethodPut, "/models/"+id, "stranger-token", `{"status":"ended"}`)
  expectStatus(t, rec, http.StatusOK)

  updated := decode[models.UpdateResult](t, rec)
  if updated.MatchedCount != 0 || updated.ModifiedCount != 0 {
    t.Errorf("stranger update must have no effect: %+v", updated)
  }

  rec = env.do(t, http.MethodDelete, "/models/"+id, "stranger-token", "")
  expectStatus(t, rec, http.StatusOK)

  if deleted := decode[models.DeleteResult](t, rec); deleted.DeletedCount != 0 {
    t.Errorf("stranger delete must have no effect: %+v", deleted)
  }

  rec = env.do(t, http.MethodPut, "/models/"+id, "owner-token", `{"status":"ended"}`)
  expectStatus(t, rec, http.StatusOK)

  if updated = decode[models.UpdateResult](t, rec); updated.ModifiedCount != 1 {
    t.Errorf("owner update must apply: %+v", updated)
  }

  rec = env.do(t, http.MethodDelete, "/models/"+id, "owner-token", "")
  expectStatus(t, rec, http.StatusOK)

  if deleted := decode[models.DeleteResult](t, rec); deleted.DeletedCount != 1 {
    t.Errorf("owner delete must apply: %+v", deleted)
  }
}

func TestOpenOwnershipAllowsAnonymousMutations(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  id := createIssue(t, env, "owner-token", `{"title":"bench"}`)

  rec := env.do(t, http.MethodPut, "/models/"+id, "", `{"status":"ended"}`)
  expectStatus(t, rec, http.StatusOK)

  if updated := decode[models.UpdateResult](t, rec); updated.ModifiedCount != 1 {
    t.Errorf("open ownership lets anyone update: %+v", updated)
  }
}

func TestIssueErrors(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  expectStatus(t, env.do(t, http.MethodGet, "/models/5f1d7f2e9b1e8a3c4d5e6f70", "", ""), http.StatusNotFound)
  expectStatus(t, env.do(t, http.MethodGet, "/models/not-an-id", "", ""), http.StatusInternalServerError)
  expectStatus(t, env.do(t, http.MethodPost, "/models", "", `["not","an","object"]`), http.StatusBadRequest)
  expectStatus(t, env.do(t, http.MethodPost, "/models", "", `{"status":"archived"}`), http.StatusBadRequest)

  rec := env.do(t, http.MethodDelete, "/models/5f1d7f2e9b1e8a3c4d5e6f70", "", "")
  expectStatus(t, rec, http.StatusOK)

  if deleted := decode[models.DeleteResult](t, rec); deleted.DeletedCount != 0 {
    t.Errorf("expected zero deleted, got %d", deleted.DeletedCount)
  }
}

func TestStats(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  createIssue(t, env, "", `{"title":"a"}`)
  createIssue(t, env, "", `{"title":"b","status":"ended"}`)
  env.do(t, http.MethodPost, "/mycontribution", "", `{"issueId":"X","email":"a@b.com"}`)

  rec := env.do(t, http.MethodGet, "/stats", "", "")
  expectStatus(t, rec, http.StatusOK)

  stats := decode[models.Stats](t, rec)
  if stats.Users != 1 || stats.Resolved != 1 || stats.Pending != 1 {
    t.Errorf("unexpected stats: %+v", stats)
  }
}

func TestStorageFailureIsInternal(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)
  env.storage.Err = errors.New("connection reset by peer")

  rec := env.do(t, http.MethodGet, "/models", "", "")
  expectStatus(t, rec, http.StatusInternalServerError)

  res := decode[errorResponse](t, rec)
  if strings.Contains(res.Error, "connection reset") {
    t.Errorf("internal error details must not leak: %q", res.Error)
  }
}

func TestUnknownRoute(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  expectStatus(t, env.do(t, http.MethodGet, "/nope", "", ""), http.StatusNotFound)
  expectStatus(t, env.do(t, http.MethodPatch, "/models", "", ""), http.StatusMethodNotAllowed)
}

func TestCORSAndRequestID(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  req := httptest.NewRequest(http.MethodGet, "/models", nil)
  req.Header.Set("Origin", "https://cleanup.example.com")

  rec := httptest.NewRecorder()
  env.handler.ServeHTTP(rec, req)

  expectStatus(t, rec, http.StatusOK)

  if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
    t.Errorf("expected wildcard CORS origin, got %q", got)
  }
  if rec.Header().Get(requestIDHeader) == "" {
    t.Error("expected request id header")
  }
}

func TestOversizedBody(t *testing.T) {
  env := setupTransport(t, Config{}, models.OwnershipOpen)

  body := `{"title": "` + strings.Repeat("a", maxBodyBytes) + `"}`

  rec := env.do(t, http.MethodPost, "/models", "", body)
  expectStatus(t, rec, http.StatusBadRequest)

  res := decode[errorResponse](t, rec)
  if !strings.Contains(res.Error, "exceeds") {
    t.Errorf("expected size error, got %q", res.Error)
  }
  if len(env.storage.Documents(models.IssuesCollection)) != 0 {
    t.Error("oversized body must not be stored")
  }
}

func TestAccessLog(t *testing.T) {
  var buf bytes.Buffer

  logger := log.StandardLogger()
  out, formatter, level := logger.Out, logger.Formatter, logger.GetLevel()

  logger.SetOutput(&buf)
  logger.SetFormatter(new(log.JSONFormatter))
  logger.SetLevel(log.InfoLevel)

  t.Cleanup(func() {
    logger.SetOutput(out)
    logger.SetFormatter(formatter)
    logger.SetLevel(level)
  })

  env := setupTransport(t, Config{}, models.OwnershipOpen)

  rec := env.do(t, http.MethodGet, "/models/"+strings.Repeat("0", 24), "", "")
  expectStatus(t, rec, http.StatusNotFound)

  var entry map[string]any
  for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
    var candidate map[string]any
    if err := json.Unmarshal(line, &candidate); err != nil {
      t.Fatalf("invalid log line %q: %v", line, err)
    }
    if candidate["msg"] == "request handled" {
      entry = candidate
    }
  }
  if entry == nil {
    t.Fatalf("no access log entry in %q", buf.String())
  }

  if entry["request_id"] != rec.Header().Get(requestIDHeader) {
    t.Errorf("expected request id %q, got %v", rec.Header().Get(requestIDHeader), entry["request_id"])
  }
  if entry["status"] != float64(http.StatusNotFound) {
    t.Errorf("expected logged status 404, got %v", entry["status"])
  }
  if entry["method"] != http.MethodGet {
    t.Errorf("expected logged method GET, got %v", entry["method"])
  }
}
