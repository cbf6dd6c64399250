package mongodb

import (
  "context"
  "errors"
  "fmt"
  "net/http"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "go.mongodb.org/mongo-driver/mongo"
  "go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("document not found")

type Client struct {
  client *mongo.Client
}

type Config struct {
  URI string `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Dependencies struct {
  Client *http.Client `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

func NewClient(ctx context.Context, config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  opts := options.
    Client().
    SetHTTPClient(deps.Client).
    SetBSONOptions(&options.BSONOptions{
      DefaultDocumentM: true,
    }).
    ApplyURI(config.URI)

  client, err := mongo.Connect(ctx, opts)
  if err != nil {
    return nil, fmt.Errorf("mongo.Connect: %w", err)
  }

  if err = client.Ping(ctx, nil); err != nil {
    if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
      log.Errorf("mongodb: client.Disconnect: %v", disconnectErr)
    }
    return nil, fmt.Errorf("client.Ping: %w", err)
  }

  log.Info("mongodb client connection successfully")

  return &Client{
    client: client,
  }, nil
}

func (c *Client) Disconnect(ctx context.Context) error {
  if err := c.client.Disconnect(ctx); err != nil {
    return fmt.Errorf("c.client.Disconnect: %w", err)
  }
  return nil
}
