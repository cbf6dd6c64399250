package models

import "errors"

var (
  ErrMissingCredential = errors.New("missing credential")
  ErrInvalidCredential = errors.New("invalid credential")
  ErrBadRequest        = errors.New("bad request")
  ErrNotFound          = errors.New("not found")
)
