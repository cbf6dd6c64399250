package mongodb

import (
  "context"
  "errors"
  "fmt"
  "reflect"

  log "github.com/sirupsen/logrus"
  "go.mongodb.org/mongo-driver/bson"
  "go.mongodb.org/mongo-driver/mongo"
  "go.mongodb.org/mongo-driver/mongo/options"
)

type CommonParams struct {
  Database   string
  Collection string
  StructType any
}

func (c *Client) collection(params CommonParams) *mongo.Collection {
  return c.client.
    Database(params.Database).
    Collection(params.Collection)
}

type InsertParams struct {
  CommonParams

  Document any
}

func (c *Client) Insert(ctx context.Context, params InsertParams) (id any, err error) {
  res, err := c.collection(params.CommonParams).InsertOne(ctx, params.Document)
  if err != nil {
    return nil, fmt.Errorf("c.client.Database.Collection.InsertOne: %w", err)
  }

  return res.InsertedID, nil
}

type SortParams struct {
  Field      string
  Descending bool
}

type FindParams struct {
  CommonParams

  Filters map[string]any
  Sort    SortParams
  Limit   int64
}

func (p *FindParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (p *FindParams) toOptions() *options.FindOptions {
  opts := options.Find()

  if p.Limit != 0 {
    opts.SetLimit(p.Limit)
  }
  if sort := makeBsonDSort(p.Sort); sort != nil {
    opts.SetSort(sort)
  }
  return opts
}

func (c *Client) Find(ctx context.Context, params FindParams) ([]any, error) {
  filters := params.toFilters()
  opts := params.toOptions()

  cursor, err := c.collection(params.CommonParams).Find(ctx, filters, opts)
  if err != nil {
    return nil, fmt.Errorf("c.client.Database.Collection.Find: %w", err)
  }

  defer func() {
    if err = cursor.Close(ctx); err != nil {
      log.Errorf("mongodb.Find: cursor.Close: %v", err)
    }
  }()

  out := make([]any, 0, params.Limit)

  for cursor.Next(ctx) {
    doc, err := decodeCursor(cursor, params.StructType)
    if err != nil {
      return nil, err
    }
    out = append(out, doc)
  }

  if err = cursor.Err(); err != nil {
    return nil, fmt.Errorf("cursor.Err: %w", err)
  }

  return out, nil
}

func decodeCursor(cursor *mongo.Cursor, structType any) (any, error) {
  if structType == nil {
    doc := map[string]any{}

    if err := cursor.Decode(&doc); err != nil {
      return nil, fmt.Errorf("cursor.Decode: %T: %w", doc, err)
    }
    return doc, nil
  }

  typ := reflect.TypeOf(structType)
  doc := reflect.New(typ).Interface()

  if err := cursor.Decode(doc); err != nil {
    return nil, fmt.Errorf("cursor.Decode: %T: %w", doc, err)
  }
  return doc, nil
}

type GetParams struct {
  CommonParams

  Filters map[string]any
}

func (c *Client) Get(ctx context.Context, params GetParams) (any, error) {
  out, err := c.Find(ctx, FindParams{
    CommonParams: params.CommonParams,
    Filters:      params.Filters,
    Limit:        1,
  })
  if err != nil {
    return nil, fmt.Errorf("c.Find: %w", err)
  }

  if len(out) == 0 {
    return nil, ErrNotFound
  }

  return out[0], nil
}

type UpdateParams struct {
  GetParams

  Document map[string]any
}

func (p *UpdateParams) toFilters() bson.D {
  return makeBsonDFilters(p.GetParams.Filters)
}

func (p *UpdateParams) toUpdates() bson.D {
  return makeBsonDUpdates(p.Document)
}

type UpdateResult struct {
  MatchedCount  int64
  ModifiedCount int64
}

func (c *Client) Update(ctx context.Context, params UpdateParams) (*UpdateResult, error) {
  if len(params.Document) == 0 {
    return nil, errors.New("update document is empty")
  }
  filters := params.toFilters()
  updates := params.toUpdates()

  res, err := c.collection(params.CommonParams).UpdateOne(ctx, filters, updates)
  if err != nil {
    return nil, fmt.Errorf("c.client.Database.Collection.UpdateOne: %w", err)
  }

  return &UpdateResult{
    MatchedCount:  res.MatchedCount,
    ModifiedCount: res.ModifiedCount,
  }, nil
}

type DeleteParams struct {
  CommonParams

  Filters map[string]any
}

func (p *DeleteParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (c *Client) Delete(ctx context.Context, params DeleteParams) (count int64, err error) {
  filters := params.toFilters()

  res, err := c.collection(params.CommonParams).DeleteOne(ctx, filters)
  if err != nil {
    return 0, fmt.Errorf("c.client.Database.Collection.DeleteOne: %w", err)
  }

  return res.DeletedCount, nil
}

type CountParams struct {
  CommonParams

  Filters map[string]any
}

func (p *CountParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (c *Client) Count(ctx context.Context, params CountParams) (int64, error) {
  filters := params.toFilters()

  count, err := c.collection(params.CommonParams).CountDocuments(ctx, filters)
  if err != nil {
    return 0, fmt.Errorf("c.client.Database.Collection.CountDocuments: %w", err)
  }

  return count, nil
}

type DistinctParams struct {
  CommonParams

  Field   string
  Filters map[string]any
}

func (p *DistinctParams) toFilters() bson.D {
  return makeBsonDFilters(p.Filters)
}

func (c *Client) Distinct(ctx context.Context, params DistinctParams) ([]any, error) {
  filters := params.toFilters()

  values, err := c.collection(params.CommonParams).Distinct(ctx, params.Field, filters)
  if err != nil {
    return nil, fmt.Errorf("c.client.Database.Collection.Distinct: %w", err)
  }

  return values, nil
}
