// internal/app/store/edits/store.go
package edits

import (
	"context"
	"time"

	"github.com/dalemusser/stratahandbook/internal/app/store/storeutil"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// QueryFilter defines filters for querying edit log entries.
type QueryFilter struct {
	SectionID string
	UserEmail string
	Action    models.EditAction
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Page      int64
}

// Store manages the append-only edit log.
type Store struct {
	c *mongo.Collection
}

// New creates a new edit log Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("edit_logs")}
}

// Append records one entry. Entries are never updated.
func (s *Store) Append(ctx context.Context, entry models.EditLogEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

func (f QueryFilter) bson() bson.M {
	query := bson.M{}
	if f.SectionID != "" {
		query["section_id"] = f.SectionID
	}
	if f.UserEmail != "" {
		query["user_email"] = f.UserEmail
	}
	if f.Action != "" {
		query["action"] = f.Action
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}

// Query retrieves entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]models.EditLogEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := storeutil.NewestFirst("timestamp", limit, filter.Page)

	cursor, err := s.c.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.EditLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries matching the filter.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.bson())
}

// GetRecent retrieves the most recent entries.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]models.EditLogEntry, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// DeleteBefore removes entries older than cutoff. Only the retention job
// calls it, and only when a retention period is configured.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
