// internal/app/store/sections/sectionstore.go
package sectionstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a section does not exist.
var ErrNotFound = errors.New("section not found")

// Store provides access to the sections collection. Each document is one
// Section keyed by its stable section id.
type Store struct {
	c *mongo.Collection
}

// New creates a new section store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sections")}
}

// LoadAll returns every stored section in navigation order.
func (s *Store) LoadAll(ctx context.Context) ([]models.Section, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sections []models.Section
	if err := cur.All(ctx, &sections); err != nil {
		return nil, err
	}
	for i := range sections {
		BackfillIDs(&sections[i])
	}
	return sections, nil
}

// Get returns one section by id.
func (s *Store) Get(ctx context.Context, id string) (models.Section, error) {
	var sec models.Section
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Section{}, ErrNotFound
	}
	if err != nil {
		return models.Section{}, err
	}
	BackfillIDs(&sec)
	return sec, nil
}

// Save replaces the stored section with sec, creating it when missing.
// Missing subsection and block ids are backfilled first; the icon reference
// is never persisted and empty optional fields are omitted.
func (s *Store) Save(ctx context.Context, sec models.Section) error {
	if strings.TrimSpace(sec.ID) == "" {
		return errors.New("section id is required")
	}
	BackfillIDs(&sec)
	now := time.Now().UTC()
	sec.UpdatedAt = &now

	opts := options.Replace().SetUpsert(true)
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": sec.ID}, sec, opts)
	return err
}

// Exists checks if a section with the given id exists.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of stored sections.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// BackfillIDs assigns UUIDs to subsections and blocks that lack one,
// recursing into child sections.
func BackfillIDs(sec *models.Section) {
	for i := range sec.Subsections {
		sub := &sec.Subsections[i]
		if sub.ID == "" {
			sub.ID = uuid.NewString()
		}
		for j := range sub.Blocks {
			if sub.Blocks[j].ID == "" {
				sub.Blocks[j].ID = uuid.NewString()
			}
		}
	}
	for i := range sec.Children {
		BackfillIDs(&sec.Children[i])
	}
}
