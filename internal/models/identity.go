package models

type Identity struct {
  UID     string `json:"uid"`
  Email   string `json:"email"`
  Name    string `json:"name"`
  Picture string `json:"picture"`
}

type OwnershipPolicy = string

const (
  // OwnershipScoped restricts issue mutations to the identity stored in the issue email.
  OwnershipScoped OwnershipPolicy = "scoped"
  // OwnershipOpen lets any caller mutate any issue.
  OwnershipOpen OwnershipPolicy = "open"
)
