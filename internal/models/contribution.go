package models

const (
  DefaultContributorName  = "Anonymous"
  DefaultContributorImage = ""
)
