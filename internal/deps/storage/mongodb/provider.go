package mongodb

import (
  "context"
  "fmt"
  "sync"
)

// Provider connects on first use and hands out the same Client afterwards.
// A failed connection attempt is not remembered.
type Provider struct {
  mu      sync.Mutex
  client  *Client
  connect func(ctx context.Context) (*Client, error)
}

func NewProvider(config Config, deps Dependencies) *Provider {
  return &Provider{
    connect: func(ctx context.Context) (*Client, error) {
      return NewClient(ctx, config, deps)
    },
  }
}

func (p *Provider) Client(ctx context.Context) (*Client, error) {
  p.mu.Lock()
  defer p.mu.Unlock()

  if p.client != nil {
    return p.client, nil
  }

  client, err := p.connect(ctx)
  if err != nil {
    return nil, fmt.Errorf("p.connect: %w", err)
  }
  p.client = client

  return client, nil
}

// Close disconnects the cached client, if any.
func (p *Provider) Close(ctx context.Context) error {
  p.mu.Lock()
  defer p.mu.Unlock()

  if p.client == nil {
    return nil
  }

  if err := p.client.Disconnect(ctx); err != nil {
    return fmt.Errorf("p.client.Disconnect: %w", err)
  }
  p.client = nil

  return nil
}
