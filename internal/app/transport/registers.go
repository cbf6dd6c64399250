package transport

import (
  "net/http"
)

func (t *Transport) registerHandlers() {
  r := t.router

  r.HandleFunc("/stats", t.handleStats).Methods(http.MethodGet)

  r.HandleFunc("/models", t.handleListIssues).Methods(http.MethodGet)
  r.HandleFunc("/models/{id}", t.handleGetIssue).Methods(http.MethodGet)
  r.HandleFunc("/models", t.authenticated(accessProtected, t.handleCreateIssue)).Methods(http.MethodPost)
  r.HandleFunc("/models/{id}", t.authenticated(accessOwner, t.handleUpdateIssue)).Methods(http.MethodPut)
  r.HandleFunc("/models/{id}", t.authenticated(accessOwner, t.handleDeleteIssue)).Methods(http.MethodDelete)

  r.HandleFunc("/mycontribution", t.authenticated(accessProtected, t.handleCreateContribution)).Methods(http.MethodPost)
  r.HandleFunc("/mycontribution", t.authenticated(accessProtected, t.handleListContributionsByEmail)).Methods(http.MethodGet)
  r.HandleFunc("/mycontribution/{issueId}", t.handleListContributionsByIssue).Methods(http.MethodGet)

  r.HandleFunc("/myissues", t.authenticated(accessProtected, t.handleListIssuesByEmail)).Methods(http.MethodGet)

  r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
  })
  r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
  })
}
