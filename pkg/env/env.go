package env

import (
  "fmt"
  "os"
  "strings"

  "github.com/spf13/cast"
)

func String(key string, fallback string) string {
  value, ok := lookup(key)
  if !ok {
    return fallback
  }
  return value
}

func Bool(key string, fallback bool) (bool, error) {
  value, ok := lookup(key)
  if !ok {
    return fallback, nil
  }

  parsed, err := cast.ToBoolE(value)
  if err != nil {
    return false, fmt.Errorf("env %s: %w", key, err)
  }
  return parsed, nil
}

func lookup(key string) (string, bool) {
  value, ok := os.LookupEnv(key)
  if !ok {
    return "", false
  }

  value = strings.TrimSpace(value)
  if value == "" {
    return "", false
  }
  return value, true
}
