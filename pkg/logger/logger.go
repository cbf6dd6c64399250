package logger

import (
  "fmt"

  "github.com/samber/lo"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/boiler/pkg/env"
)

type Config struct {
  // Fields are attached to every entry unless the entry sets them itself.
  Fields map[string]any
  // Level is a logrus level name. Empty means info.
  Level string
}

type formatter struct {
  format log.Formatter
  fields map[string]any
}

func (f formatter) Format(entry *log.Entry) ([]byte, error) {
  for k, v := range f.fields {
    if _, exists := entry.Data[k]; !exists {
      entry.Data[k] = v
    }
  }
  return f.format.Format(entry)
}

// Init installs the default configuration, used before settings are loaded.
func Init() {
  _ = InitWithConfig(Config{})
}

func InitWithConfig(config Config) error {
  level := log.InfoLevel

  if config.Level != "" {
    parsed, err := log.ParseLevel(config.Level)
    if err != nil {
      return fmt.Errorf("log.ParseLevel: %w", err)
    }
    level = parsed
  }

  var (
    format log.Formatter
    caller bool
  )

  switch env.AppEnv() {

  case env.ProductionEnv:
    format = new(log.JSONFormatter)
    caller = true

  default:
    format = new(log.TextFormatter)
    caller = false
  }

  log.SetFormatter(formatter{
    fields: lo.Assign(map[string]any{}, config.Fields),
    format: format,
  })
  log.SetLevel(level)
  log.SetReportCaller(caller)

  return nil
}
