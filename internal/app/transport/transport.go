package transport

import (
  "net/http"

  "github.com/gorilla/handlers"
  "github.com/gorilla/mux"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/cleanup/internal/app/cleanup"
  "github.com/ushakovn/cleanup/internal/deps/identity"
)

type Transport struct {
  config Config
  deps   Dependencies
  router *mux.Router
}

type Config struct {
  // AuthRequired rejects anonymous requests to protected routes.
  AuthRequired bool
}

type Dependencies struct {
  Cleanup *cleanup.Service
  // Verifier may be nil, then every request is anonymous.
  Verifier identity.Verifier
}

func NewTransport(config Config, deps Dependencies) *Transport {
  t := &Transport{
    config: config,
    deps:   deps,
    router: mux.NewRouter(),
  }
  t.registerHandlers()

  return t
}

// Handler returns the router wrapped in the middleware chain.
func (t *Transport) Handler() http.Handler {
  cors := handlers.CORS(
    handlers.AllowedOrigins([]string{"*"}),
    handlers.AllowedMethods([]string{
      http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
    }),
    handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
  )

  recovery := handlers.RecoveryHandler(
    handlers.RecoveryLogger(log.StandardLogger()),
    handlers.PrintRecoveryStack(true),
  )

  return withRequestID(logRequests(recovery(cors(t.router))))
}
