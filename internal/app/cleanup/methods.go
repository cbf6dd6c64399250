package cleanup

import (
  "context"
  "errors"
  "fmt"

  "github.com/spf13/cast"
  "github.com/ushakovn/cleanup/internal/deps/storage/mongodb"
  "github.com/ushakovn/cleanup/internal/models"
  "go.mongodb.org/mongo-driver/bson/primitive"
  "golang.org/x/sync/errgroup"
)

var newestFirst = mongodb.SortParams{
  Field:      models.FieldDate,
  Descending: true,
}

func (s *Service) ListIssues(ctx context.Context) ([]models.Document, error) {
  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  res, err := storage.Find(ctx, mongodb.FindParams{
    CommonParams: s.issuesParams(),
    Sort:         newestFirst,
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Find: %w", err)
  }

  return toDocuments(res)
}

func (s *Service) GetIssue(ctx context.Context, id string) (models.Document, error) {
  oid, err := parseObjectID(id)
  if err != nil {
    return nil, err
  }

  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  res, err := storage.Get(ctx, mongodb.GetParams{
    CommonParams: s.issuesParams(),
    Filters: map[string]any{
      models.FieldID: oid,
    },
  })
  if err != nil {
    if errors.Is(err, mongodb.ErrNotFound) {
      return nil, fmt.Errorf("%w: issue %s", models.ErrNotFound, id)
    }
    return nil, fmt.Errorf("storage.Get: %w", err)
  }

  return toDocument(res)
}

type CreateIssueParams struct {
  Fields   models.Document
  Identity *models.Identity
}

func (s *Service) CreateIssue(ctx context.Context, params CreateIssueParams) (*models.InsertResult, error) {
  issue := prepareFields(params.Fields)

  if isBlank(issue[models.FieldStatus]) {
    issue[models.FieldStatus] = models.IssueStatusOngoing
  }
  if !models.IsIssueStatus(issue[models.FieldStatus]) {
    return nil, fmt.Errorf("%w: unknown issue status %v", models.ErrBadRequest, issue[models.FieldStatus])
  }

  if identity := params.Identity; identity != nil {
    if s.OwnershipScoped() || emailOf(issue) == "" {
      issue[models.FieldEmail] = identity.Email
    }
  }

  issue[models.FieldID] = primitive.NewObjectID()
  issue[models.FieldDate] = s.deps.Now()

  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  id, err := storage.Insert(ctx, mongodb.InsertParams{
    CommonParams: s.issuesParams(),
    Document:     issue,
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Insert: %w", err)
  }

  return &models.InsertResult{
    Acknowledged: true,
    InsertedID:   id,
  }, nil
}

type UpdateIssueParams struct {
  ID       string
  Fields   models.Document
  Identity *models.Identity
}

func (s *Service) UpdateIssue(ctx context.Context, params UpdateIssueParams) (*models.UpdateResult, error) {
  oid, err := parseObjectID(params.ID)
  if err != nil {
    return nil, err
  }

  filters, err := s.ownerFilters(oid, params.Identity)
  if err != nil {
    return nil, err
  }

  updates := prepareFields(params.Fields)

  if s.OwnershipScoped() {
    delete(updates, models.FieldEmail)
  }
  if status, ok := updates[models.FieldStatus]; ok && !models.IsIssueStatus(status) {
    return nil, fmt.Errorf("%w: unknown issue status %v", models.ErrBadRequest, status)
  }
  if len(updates) == 0 {
    return nil, fmt.Errorf("%w: no fields to update", models.ErrBadRequest)
  }

  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  res, err := storage.Update(ctx, mongodb.UpdateParams{
    GetParams: mongodb.GetParams{
      CommonParams: s.issuesParams(),
      Filters:      filters,
    },
    Document: updates,
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Update: %w", err)
  }

  return &models.UpdateResult{
    Acknowledged:  true,
    MatchedCount:  res.MatchedCount,
    ModifiedCount: res.ModifiedCount,
  }, nil
}

type DeleteIssueParams struct {
  ID       string
  Identity *models.Identity
}

func (s *Service) DeleteIssue(ctx context.Context, params DeleteIssueParams) (*models.DeleteResult, error) {
  oid, err := parseObjectID(params.ID)
  if err != nil {
    return nil, err
  }

  filters, err := s.ownerFilters(oid, params.Identity)
  if err != nil {
    return nil, err
  }

  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  count, err := storage.Delete(ctx, mongodb.DeleteParams{
    CommonParams: s.issuesParams(),
    Filters:      filters,
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Delete: %w", err)
  }

  return &models.DeleteResult{
    Acknowledged: true,
    DeletedCount: count,
  }, nil
}

// Stats runs its three queries independently, so the counts are not
// taken from a single snapshot.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  var (
    users    []any
    resolved int64
    pending  int64
  )

  group, groupCtx := errgroup.WithContext(ctx)

  group.Go(func() (err error) {
    users, err = storage.Distinct(groupCtx, mongodb.DistinctParams{
      CommonParams: s.contributionsParams(),
      Field:        models.FieldEmail,
    })
    if err != nil {
      return fmt.Errorf("storage.Distinct: %w", err)
    }
    return nil
  })

  group.Go(func() (err error) {
    resolved, err = s.countIssues(groupCtx, storage, models.IssueStatusEnded)
    return err
  })

  group.Go(func() (err error) {
    pending, err = s.countIssues(groupCtx, storage, models.IssueStatusOngoing)
    return err
  })

  if err = group.Wait(); err != nil {
    return nil, err
  }

  return &models.Stats{
    Users:    len(users),
    Resolved: resolved,
    Pending:  pending,
  }, nil
}

func (s *Service) countIssues(ctx context.Context, storage Storage, status models.IssueStatus) (int64, error) {
  count, err := storage.Count(ctx, mongodb.CountParams{
    CommonParams: s.issuesParams(),
    Filters: map[string]any{
      models.FieldStatus: status,
    },
  })
  if err != nil {
    return 0, fmt.Errorf("storage.Count: %s: %w", status, err)
  }
  return count, nil
}

type CreateContributionParams struct {
  Fields   models.Document
  Identity *models.Identity
}

func (s *Service) CreateContribution(ctx context.Context, params CreateContributionParams) (*models.InsertResult, error) {
  contribution := prepareFields(params.Fields)

  email := emailOf(contribution)
  if email == "" {
    return nil, fmt.Errorf("%w: email is required", models.ErrBadRequest)
  }
  contribution[models.FieldEmail] = email

  if issueID, ok := contribution[models.FieldIssueID]; ok {
    value, err := cast.ToStringE(issueID)
    if err != nil {
      return nil, fmt.Errorf("%w: issueId: %v", models.ErrBadRequest, err)
    }
    contribution[models.FieldIssueID] = value
  }

  setContributorDefaults(contribution, params.Identity)

  contribution[models.FieldID] = primitive.NewObjectID()
  contribution[models.FieldDate] = s.deps.Now()

  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  id, err := storage.Insert(ctx, mongodb.InsertParams{
    CommonParams: s.contributionsParams(),
    Document:     contribution,
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Insert: %w", err)
  }

  return &models.InsertResult{
    Acknowledged: true,
    InsertedID:   id,
  }, nil
}

func setContributorDefaults(contribution models.Document, identity *models.Identity) {
  name := models.DefaultContributorName
  image := models.DefaultContributorImage

  if identity != nil {
    if identity.Name != "" {
      name = identity.Name
    }
    if identity.Picture != "" {
      image = identity.Picture
    }
  }

  if isBlank(contribution[models.FieldName]) {
    contribution[models.FieldName] = name
  }
  if _, ok := contribution[models.FieldImage]; !ok {
    contribution[models.FieldImage] = image
  }
}

func (s *Service) ListContributionsByIssue(ctx context.Context, issueID string) ([]models.Document, error) {
  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  res, err := storage.Find(ctx, mongodb.FindParams{
    CommonParams: s.contributionsParams(),
    Filters: map[string]any{
      models.FieldIssueID: issueID,
    },
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Find: %w", err)
  }

  return toDocuments(res)
}

func (s *Service) ListContributionsByEmail(ctx context.Context, email string) ([]models.Document, error) {
  return s.listByEmail(ctx, s.contributionsParams(), email)
}

func (s *Service) ListIssuesByEmail(ctx context.Context, email string) ([]models.Document, error) {
  return s.listByEmail(ctx, s.issuesParams(), email)
}

func (s *Service) listByEmail(ctx context.Context, params mongodb.CommonParams, email string) ([]models.Document, error) {
  email = emailOf(models.Document{models.FieldEmail: email})
  if email == "" {
    return nil, fmt.Errorf("%w: email query parameter is required", models.ErrBadRequest)
  }

  storage, err := s.storage(ctx)
  if err != nil {
    return nil, err
  }

  res, err := storage.Find(ctx, mongodb.FindParams{
    CommonParams: params,
    Filters: map[string]any{
      models.FieldEmail: email,
    },
    Sort: newestFirst,
  })
  if err != nil {
    return nil, fmt.Errorf("storage.Find: %w", err)
  }

  return toDocuments(res)
}
