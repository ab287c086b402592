// internal/app/store/oauthstate/oauthstatestore.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by Get for an unknown state.
var ErrNotFound = errors.New("oauth state not found")

// TTL bounds the Google round trip. The TTL index on expires_at removes
// leftovers; the cleanup job and Consume also check the time themselves.
const TTL = 10 * time.Minute

// State is one pending sign-in. ReturnTo is the local path to go back to.
type State struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	State     string             `bson:"state"`
	ReturnTo  string             `bson:"return_to,omitempty"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store is the oauth_states collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// Create records state with an expiry of now + TTL. A repeated state fails
// on the unique index.
func (s *Store) Create(ctx context.Context, state, returnTo string) error {
	now := time.Now()
	_, err := s.c.InsertOne(ctx, State{
		ID:        primitive.NewObjectID(),
		State:     state,
		ReturnTo:  returnTo,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
	})
	return err
}

// Consume deletes an unexpired state and returns its ReturnTo. ok is false
// for empty, unknown, expired or already used states.
func (s *Store) Consume(ctx context.Context, state string) (returnTo string, ok bool) {
	if state == "" {
		return "", false
	}
	var doc State
	err := s.c.FindOneAndDelete(ctx, bson.M{"state": state, "expires_at": bson.M{"$gt": time.Now()}}).Decode(&doc)
	return doc.ReturnTo, err == nil
}

// DeleteExpired removes states past their expiry and reports how many.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Get reads a state without consuming it.
func (s *Store) Get(ctx context.Context, state string) (State, error) {
	var doc State
	switch err := s.c.FindOne(ctx, bson.M{"state": state}).Decode(&doc); {
	case errors.Is(err, mongo.ErrNoDocuments):
		return State{}, ErrNotFound
	case err != nil:
		return State{}, err
	}
	return doc, nil
}
