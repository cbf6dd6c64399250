package models

import (
  set "github.com/deckarep/golang-set/v2"
)

type IssueStatus = string

const (
  IssueStatusOngoing IssueStatus = "ongoing"
  IssueStatusEnded   IssueStatus = "ended"
)

var issueStatuses = set.NewSet(IssueStatusOngoing, IssueStatusEnded)

func IsIssueStatus(value any) bool {
  status, ok := value.(string)
  if !ok {
    return false
  }
  return issueStatuses.ContainsOne(status)
}

const (
  IssuesCollection        = "models"
  ContributionsCollection = "myContribution"
)

// Document fields shared by issues and contributions.
const (
  FieldID      = "_id"
  FieldEmail   = "email"
  FieldDate    = "date"
  FieldStatus  = "status"
  FieldIssueID = "issueId"
  FieldName    = "name"
  FieldImage   = "image"
)

// Document is a stored issue or contribution. Reporters may send
// arbitrary fields, so documents are kept schemaless.
type Document = map[string]any
