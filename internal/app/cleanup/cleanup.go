package cleanup

import (
  "context"
  "time"

  "github.com/ushakovn/cleanup/internal/deps/storage/mongodb"
  "github.com/ushakovn/cleanup/internal/models"
)

// Storage is the subset of the mongodb client the service depends on.
type Storage interface {
  Insert(ctx context.Context, params mongodb.InsertParams) (any, error)
  Find(ctx context.Context, params mongodb.FindParams) ([]any, error)
  Get(ctx context.Context, params mongodb.GetParams) (any, error)
  Update(ctx context.Context, params mongodb.UpdateParams) (*mongodb.UpdateResult, error)
  Delete(ctx context.Context, params mongodb.DeleteParams) (int64, error)
  Count(ctx context.Context, params mongodb.CountParams) (int64, error)
  Distinct(ctx context.Context, params mongodb.DistinctParams) ([]any, error)
}

// Connector returns the storage handle for a request, connecting on first use.
type Connector func(ctx context.Context) (Storage, error)

// ProviderConnector adapts the cached mongodb provider.
func ProviderConnector(provider *mongodb.Provider) Connector {
  return func(ctx context.Context) (Storage, error) {
    client, err := provider.Client(ctx)
    if err != nil {
      return nil, err
    }
    return client, nil
  }
}

type Service struct {
  config Config
  deps   Dependencies
}

type Config struct {
  Database  string
  Ownership models.OwnershipPolicy
}

type Dependencies struct {
  Mongodb Connector
  Now     func() time.Time
}

func NewService(config Config, deps Dependencies) *Service {
  if deps.Now == nil {
    deps.Now = time.Now
  }
  if config.Ownership == "" {
    config.Ownership = models.OwnershipScoped
  }
  return &Service{
    config: config,
    deps:   deps,
  }
}

func (s *Service) OwnershipScoped() bool {
  return s.config.Ownership == models.OwnershipScoped
}
