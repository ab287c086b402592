// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collections lists the indexes each handbook collection should carry.
var collections = []struct {
	name   string
	models []mongo.IndexModel
}{
	{"sections", []mongo.IndexModel{
		{Keys: bson.D{{Key: "order", Value: 1}}, Options: options.Index().SetName("idx_sections_order")},
	}},
	{"edit_logs", []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_edits_timestamp")},
		{Keys: bson.D{{Key: "section_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_edits_section")},
		{Keys: bson.D{{Key: "user_email", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_edits_user")},
	}},
	{"oauth_states", []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_oauth_state")},
		// expired states are reaped by Mongo; the cleanup job covers servers without TTL support
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_expires_ttl")},
	}},
}

// EnsureAll reconciles every collection's indexes. It is safe to run on each
// start; problems from all collections are joined so one bad index does not
// hide another.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for _, c := range collections {
		if err := ensure(ctx, db.Collection(c.name), c.models); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
}

// ensure creates missing indexes. An index with the same keys is reused
// when its uniqueness matches and rebuilt when it does not, so tightening
// an index to unique takes effect on the next start.
func ensure(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	have, err := listIndexes(ctx, coll)
	if err != nil {
		return err
	}

	var errs []error
	for _, m := range want {
		sig := keySig(m.Keys.(bson.D))
		unique := m.Options != nil && m.Options.Unique != nil && *m.Options.Unique
		log := zap.L().With(zap.String("collection", coll.Name()), zap.String("keys", sig))

		if ex, ok := have[sig]; ok {
			if ex.Unique == unique {
				log.Debug("index present", zap.String("name", ex.Name))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Errorf("drop %s: %w", ex.Name, err))
				continue
			}
			log.Info("dropped index to change uniqueness", zap.String("name", ex.Name))
		}

		name, err := coll.Indexes().CreateOne(ctx, m)
		switch {
		case err != nil && unique && mongo.IsDuplicateKeyError(err):
			errs = append(errs, fmt.Errorf("unique index on %s: duplicates present", sig))
		case err != nil:
			log.Warn("index ensure failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("index on %s: %w", sig, err))
		default:
			log.Info("index created", zap.String("name", name), zap.Bool("unique", unique))
		}
	}
	return errors.Join(errs...)
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	var all []existingIndex
	if err := cur.All(ctx, &all); err != nil {
		return nil, fmt.Errorf("decode indexes: %w", err)
	}
	have := make(map[string]existingIndex, len(all))
	for _, idx := range all {
		have[keySig(idx.Key)] = idx
	}
	return have, nil
}

// keySig renders a key pattern as "field:dir, ..." for comparison. Index
// directions come back from the server as int32, so values print rather
// than compare by type.
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}
