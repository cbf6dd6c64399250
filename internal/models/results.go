package models

type Stats struct {
  Users    int   `json:"users"`
  Resolved int64 `json:"resolved"`
  Pending  int64 `json:"pending"`
}

type InsertResult struct {
  Acknowledged bool `json:"acknowledged"`
  InsertedID   any  `json:"insertedId"`
}

type UpdateResult struct {
  Acknowledged  bool  `json:"acknowledged"`
  MatchedCount  int64 `json:"matchedCount"`
  ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
  Acknowledged bool  `json:"acknowledged"`
  DeletedCount int64 `json:"deletedCount"`
}
