package transport

import (
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/models"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
  Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
  w.Header().Set("Content-Type", "application/json")
  w.WriteHeader(code)

  if err := json.NewEncoder(w).Encode(v); err != nil {
    log.Errorf("transport: json.Encode: %v", err)
  }
}

func errorStatus(err error) int {
  switch {
  case errors.Is(err, models.ErrMissingCredential), errors.Is(err, models.ErrInvalidCredential):
    return http.StatusUnauthorized
  case errors.Is(err, models.ErrBadRequest):
    return http.StatusBadRequest
  case errors.Is(err, models.ErrNotFound):
    return http.StatusNotFound
  default:
    return http.StatusInternalServerError
  }
}

// writeError answers with the classified status. Internal failures are
// logged with the full chain and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
  code := errorStatus(err)

  entry := log.
    WithField("request_id", requestID(r)).
    WithField("path", r.URL.Path).
    WithField("status", code)

  if code == http.StatusInternalServerError {
    entry.Errorf("request failed: %v", err)
    writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
    return
  }

  entry.Warnf("request rejected: %v", err)
  writeJSON(w, code, errorResponse{Error: err.Error()})
}

// readDocument decodes a JSON object body. An empty body is an empty document.
func readDocument(w http.ResponseWriter, r *http.Request) (models.Document, error) {
  body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
  defer body.Close()

  doc := models.Document{}

  if err := json.NewDecoder(body).Decode(&doc); err != nil {
    if errors.Is(err, io.EOF) {
      return models.Document{}, nil
    }
    var tooLarge *http.MaxBytesError
    if errors.As(err, &tooLarge) {
      return nil, fmt.Errorf("%w: request body exceeds %d bytes", models.ErrBadRequest, tooLarge.Limit)
    }
    return nil, fmt.Errorf("%w: request body must be a JSON object: %v", models.ErrBadRequest, err)
  }
  if doc == nil {
    doc = models.Document{}
  }

  return doc, nil
}
