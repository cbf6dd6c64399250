package mongodb

import (
  "sort"

  "github.com/samber/lo"
  "go.mongodb.org/mongo-driver/bson"
)

func makeBsonDUpdates(document map[string]any) bson.D {
  updates := makeBsonD(document)

  return bson.D{{
    Key:   "$set",
    Value: updates,
  }}
}

func makeBsonDFilters(kv map[string]any) bson.D {
  return makeBsonD(kv)
}

func makeBsonDSort(params SortParams) bson.D {
  if params.Field == "" {
    return nil
  }
  order := 1

  if params.Descending {
    order = -1
  }

  return bson.D{{
    Key:   params.Field,
    Value: order,
  }}
}

// makeBsonD orders keys so that generated commands are stable.
func makeBsonD(kv map[string]any) bson.D {
  keys := lo.Keys(kv)
  sort.Strings(keys)

  out := make(bson.D, 0, len(keys))

  for _, key := range keys {
    out = append(out, bson.E{
      Key:   key,
      Value: kv[key],
    })
  }

  return out
}
