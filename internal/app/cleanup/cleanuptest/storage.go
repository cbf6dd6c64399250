// Package cleanuptest provides an in-memory Storage for tests.
package cleanuptest

import (
  "context"
  "fmt"
  "reflect"
  "sort"
  "sync"
  "time"

  "github.com/samber/lo"
  "github.com/ushakovn/cleanup/internal/app/cleanup"
  "github.com/ushakovn/cleanup/internal/deps/storage/mongodb"
  "go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage keeps documents per collection and understands equality
// filters, $set style updates and sorting by a time field.
type Storage struct {
  mu          sync.Mutex
  collections map[string][]map[string]any

  // Err, when set, is returned by every operation.
  Err error
}

func NewStorage() *Storage {
  return &Storage{
    collections: make(map[string][]map[string]any),
  }
}

// Connector returns a cleanup.Connector that always yields s.
func (s *Storage) Connector() cleanup.Connector {
  return func(ctx context.Context) (cleanup.Storage, error) {
    return s, nil
  }
}

// Documents returns copies of all documents stored in a collection.
func (s *Storage) Documents(collection string) []map[string]any {
  s.mu.Lock()
  defer s.mu.Unlock()

  return lo.Map(s.collections[collection], func(doc map[string]any, _ int) map[string]any {
    return copyDocument(doc)
  })
}

func (s *Storage) Insert(_ context.Context, params mongodb.InsertParams) (any, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.Err != nil {
    return nil, s.Err
  }

  doc, ok := params.Document.(map[string]any)
  if !ok {
    return nil, fmt.Errorf("unsupported document type: %T", params.Document)
  }
  doc = copyDocument(doc)

  if _, ok = doc["_id"]; !ok {
    doc["_id"] = primitive.NewObjectID()
  }
  s.collections[params.Collection] = append(s.collections[params.Collection], doc)

  return doc["_id"], nil
}

func (s *Storage) Find(_ context.Context, params mongodb.FindParams) ([]any, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.Err != nil {
    return nil, s.Err
  }

  matched := lo.Filter(s.collections[params.Collection], func(doc map[string]any, _ int) bool {
    return matches(doc, params.Filters)
  })
  matched = lo.Map(matched, func(doc map[string]any, _ int) map[string]any {
    return copyDocument(doc)
  })

  if field := params.Sort.Field; field != "" {
    sort.SliceStable(matched, func(i, j int) bool {
      left, _ := matched[i][field].(time.Time)
      right, _ := matched[j][field].(time.Time)

      if params.Sort.Descending {
        return left.After(right)
      }
      return left.Before(right)
    })
  }

  if params.Limit > 0 && int64(len(matched)) > params.Limit {
    matched = matched[:params.Limit]
  }

  return lo.ToAnySlice(matched), nil
}

func (s *Storage) Get(ctx context.Context, params mongodb.GetParams) (any, error) {
  out, err := s.Find(ctx, mongodb.FindParams{
    CommonParams: params.CommonParams,
    Filters:      params.Filters,
    Limit:        1,
  })
  if err != nil {
    return nil, err
  }
  if len(out) == 0 {
    return nil, mongodb.ErrNotFound
  }
  return out[0], nil
}

func (s *Storage) Update(_ context.Context, params mongodb.UpdateParams) (*mongodb.UpdateResult, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.Err != nil {
    return nil, s.Err
  }

  for _, doc := range s.collections[params.Collection] {
    if !matches(doc, params.Filters) {
      continue
    }
    res := &mongodb.UpdateResult{MatchedCount: 1}

    for key, value := range params.Document {
      if current, ok := doc[key]; !ok || !reflect.DeepEqual(current, value) {
        res.ModifiedCount = 1
      }
      doc[key] = value
    }
    return res, nil
  }

  return &mongodb.UpdateResult{}, nil
}

func (s *Storage) Delete(_ context.Context, params mongodb.DeleteParams) (int64, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.Err != nil {
    return 0, s.Err
  }

  docs := s.collections[params.Collection]

  for index, doc := range docs {
    if matches(doc, params.Filters) {
      s.collections[params.Collection] = append(docs[:index:index], docs[index+1:]...)
      return 1, nil
    }
  }

  return 0, nil
}

func (s *Storage) Count(_ context.Context, params mongodb.CountParams) (int64, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.Err != nil {
    return 0, s.Err
  }

  count := lo.CountBy(s.collections[params.Collection], func(doc map[string]any) bool {
    return matches(doc, params.Filters)
  })

  return int64(count), nil
}

func (s *Storage) Distinct(_ context.Context, params mongodb.DistinctParams) ([]any, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  if s.Err != nil {
    return nil, s.Err
  }

  var out []any

  for _, doc := range s.collections[params.Collection] {
    if !matches(doc, params.Filters) {
      continue
    }
    value := doc[params.Field]

    if !lo.ContainsBy(out, func(seen any) bool { return reflect.DeepEqual(seen, value) }) {
      out = append(out, value)
    }
  }

  return out, nil
}

func matches(doc map[string]any, filters map[string]any) bool {
  for key, want := range filters {
    if !reflect.DeepEqual(doc[key], want) {
      return false
    }
  }
  return true
}

func copyDocument(doc map[string]any) map[string]any {
  return lo.Assign(doc)
}
