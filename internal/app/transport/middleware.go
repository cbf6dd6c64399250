package transport

import (
  "context"
  "io"
  "net/http"
  "time"

  "github.com/google/uuid"
  "github.com/gorilla/handlers"
  log "github.com/sirupsen/logrus"
)

type requestIDKey struct{}

const requestIDHeader = "X-Request-Id"

func withRequestID(next http.Handler) http.Handler {
  return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    id := uuid.NewString()

    w.Header().Set(requestIDHeader, id)
    next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
  })
}

func logRequests(next http.Handler) http.Handler {
  return handlers.CustomLoggingHandler(io.Discard, next, formatRequestLog)
}

func formatRequestLog(_ io.Writer, params handlers.LogFormatterParams) {
  log.
    WithFields(log.Fields{
      "request_id": requestID(params.Request),
      "method":     params.Request.Method,
      "path":       params.URL.Path,
      "status":     params.StatusCode,
      "size":       params.Size,
      "duration":   time.Since(params.TimeStamp).String(),
    }).
    Info("request handled")
}

func requestID(r *http.Request) string {
  id, _ := r.Context().Value(requestIDKey{}).(string)
  return id
}
