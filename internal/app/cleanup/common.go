package cleanup

import (
  "context"
  "fmt"

  set "github.com/deckarep/golang-set/v2"
  "github.com/samber/lo"
  "github.com/spf13/cast"
  "github.com/ushakovn/cleanup/internal/deps/storage/mongodb"
  "github.com/ushakovn/cleanup/internal/models"
  "github.com/ushakovn/cleanup/pkg/stringer"
  "go.mongodb.org/mongo-driver/bson/primitive"
)

var (
  // Fields clients can never write.
  immutableFields = set.NewSet(models.FieldID, models.FieldDate)
  // References stored exactly as sent.
  verbatimFields = set.NewSet(models.FieldIssueID, models.FieldImage)
)

func (s *Service) storage(ctx context.Context) (Storage, error) {
  storage, err := s.deps.Mongodb(ctx)
  if err != nil {
    return nil, fmt.Errorf("s.deps.Mongodb: %w", err)
  }
  return storage, nil
}

func (s *Service) issuesParams() mongodb.CommonParams {
  return mongodb.CommonParams{
    Database:   s.config.Database,
    Collection: models.IssuesCollection,
  }
}

func (s *Service) contributionsParams() mongodb.CommonParams {
  return mongodb.CommonParams{
    Database:   s.config.Database,
    Collection: models.ContributionsCollection,
  }
}

func (s *Service) ownerFilters(id primitive.ObjectID, identity *models.Identity) (map[string]any, error) {
  filters := map[string]any{
    models.FieldID: id,
  }
  if !s.OwnershipScoped() {
    return filters, nil
  }

  if identity == nil {
    return nil, fmt.Errorf("%w: issue mutations are restricted to the owner", models.ErrMissingCredential)
  }
  filters[models.FieldEmail] = identity.Email

  return filters, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
  oid, err := primitive.ObjectIDFromHex(id)
  if err != nil {
    return primitive.NilObjectID, fmt.Errorf("primitive.ObjectIDFromHex: %q: %w", id, err)
  }
  return oid, nil
}

// prepareFields copies client fields without the immutable ones, strips
// markup from top level display strings and normalizes the email.
func prepareFields(fields models.Document) models.Document {
  out := lo.OmitBy(fields, func(key string, _ any) bool {
    return immutableFields.ContainsOne(key)
  })

  for key, value := range out {
    text, ok := value.(string)
    if !ok {
      continue
    }
    switch {
    case key == models.FieldEmail:
      out[key] = stringer.NormalizeEmail(text)
    case verbatimFields.ContainsOne(key):
      continue
    default:
      out[key] = stringer.SanitizeText(text)
    }
  }

  return out
}

func emailOf(doc models.Document) string {
  return stringer.NormalizeEmail(cast.ToString(doc[models.FieldEmail]))
}

func isBlank(value any) bool {
  if value == nil {
    return true
  }
  text, ok := value.(string)

  return ok && stringer.IsEmptyStr(text)
}

func toDocuments(values []any) ([]models.Document, error) {
  out := make([]models.Document, 0, len(values))

  for _, value := range values {
    doc, err := toDocument(value)
    if err != nil {
      return nil, err
    }
    out = append(out, doc)
  }

  return out, nil
}

func toDocument(value any) (models.Document, error) {
  doc, ok := value.(map[string]any)
  if !ok {
    return nil, fmt.Errorf("cast %v with type: %[1]T to: %T failed", value, models.Document{})
  }
  return doc, nil
}
