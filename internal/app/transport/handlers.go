package transport

import (
  "net/http"

  "github.com/gorilla/mux"
  "github.com/ushakovn/cleanup/internal/app/cleanup"
  "github.com/ushakovn/cleanup/internal/models"
)

func (t *Transport) handleStats(w http.ResponseWriter, r *http.Request) {
  stats, err := t.deps.Cleanup.Stats(r.Context())
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, stats)
}

func (t *Transport) handleListIssues(w http.ResponseWriter, r *http.Request) {
  issues, err := t.deps.Cleanup.ListIssues(r.Context())
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, issues)
}

func (t *Transport) handleGetIssue(w http.ResponseWriter, r *http.Request) {
  issue, err := t.deps.Cleanup.GetIssue(r.Context(), mux.Vars(r)["id"])
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, issue)
}

func (t *Transport) handleCreateIssue(w http.ResponseWriter, r *http.Request, caller *models.Identity) {
  fields, err := readDocument(w, r)
  if err != nil {
    writeError(w, r, err)
    return
  }

  res, err := t.deps.Cleanup.CreateIssue(r.Context(), cleanup.CreateIssueParams{
    Fields:   fields,
    Identity: caller,
  })
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, res)
}

func (t *Transport) handleUpdateIssue(w http.ResponseWriter, r *http.Request, caller *models.Identity) {
  fields, err := readDocument(w, r)
  if err != nil {
    writeError(w, r, err)
    return
  }

  res, err := t.deps.Cleanup.UpdateIssue(r.Context(), cleanup.UpdateIssueParams{
    ID:       mux.Vars(r)["id"],
    Fields:   fields,
    Identity: caller,
  })
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, res)
}

func (t *Transport) handleDeleteIssue(w http.ResponseWriter, r *http.Request, caller *models.Identity) {
  res, err := t.deps.Cleanup.DeleteIssue(r.Context(), cleanup.DeleteIssueParams{
    ID:       mux.Vars(r)["id"],
    Identity: caller,
  })
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, res)
}

func (t *Transport) handleCreateContribution(w http.ResponseWriter, r *http.Request, caller *models.Identity) {
  fields, err := readDocument(w, r)
  if err != nil {
    writeError(w, r, err)
    return
  }

  res, err := t.deps.Cleanup.CreateContribution(r.Context(), cleanup.CreateContributionParams{
    Fields:   fields,
    Identity: caller,
  })
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, res)
}

func (t *Transport) handleListContributionsByEmail(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
  contributions, err := t.deps.Cleanup.ListContributionsByEmail(r.Context(), r.URL.Query().Get("email"))
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, contributions)
}

func (t *Transport) handleListContributionsByIssue(w http.ResponseWriter, r *http.Request) {
  contributions, err := t.deps.Cleanup.ListContributionsByIssue(r.Context(), mux.Vars(r)["issueId"])
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, contributions)
}

func (t *Transport) handleListIssuesByEmail(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
  issues, err := t.deps.Cleanup.ListIssuesByEmail(r.Context(), r.URL.Query().Get("email"))
  if err != nil {
    writeError(w, r, err)
    return
  }
  writeJSON(w, http.StatusOK, issues)
}
