// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes the schema setup tolerates.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

// EnsureAll creates the handbook collections and attaches their JSON-Schema
// validators. Servers without collMod support (some DocumentDB versions)
// keep the collections unvalidated.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for _, c := range []struct {
		name   string
		schema bson.M
	}{
		{"sections", sectionsSchema()},
		{"edit_logs", editLogsSchema()},
		{"oauth_states", nil},
	} {
		if _, err := ensureCollection(ctx, db, c.name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		if c.schema == nil {
			continue
		}
		switch err := setValidator(ctx, db, c.name, c.schema); {
		case err == nil:
		case unsupported(err):
			zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
		default:
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

// collectionExists reports whether name is already in db.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection creates name unless it exists. created is true only when
// this call made it; losing a create race counts as existing.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, err := collectionExists(ctx, db, name); err == nil && exists {
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if hasCode(err, codeNamespaceExists, "already exists") {
			return false, nil
		}
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

// setValidator installs schema at moderate level, so documents written
// before the validator existed can still be updated.
func setValidator(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

func unsupported(err error) bool {
	return hasCode(err, codeCommandNotFound, "no such command") ||
		hasCode(err, codeNotImplemented, "not implemented") ||
		hasCode(err, codeNotImplemented, "not supported")
}

// hasCode matches a server error by code, or by message for servers that
// report a different code for the same condition.
func hasCode(err error, code int, phrase string) bool {
	if err == nil {
		return false
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(code) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), phrase)
}

// sectionsSchema leaves subsection content unconstrained: legacy documents
// store it as either a string or an array of strings.
func sectionsSchema() bson.M {
	subsection := bson.M{
		"bsonType": "object",
		"required": bson.A{"title"},
		"properties": bson.M{
			"title":  bson.M{"bsonType": "string"},
			"slug":   bson.M{"bsonType": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
			"blocks": bson.M{"bsonType": "array"},
		},
	}
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"title", "order"},
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "string", "minLength": 1},
			"title":       bson.M{"bsonType": "string"},
			"order":       bson.M{"bsonType": bson.A{"int", "long"}},
			"subsections": bson.M{"bsonType": "array", "items": subsection},
		},
	}}
}

func editLogsSchema() bson.M {
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"timestamp", "section_id", "action"},
		"properties": bson.M{
			"timestamp":  bson.M{"bsonType": "date"},
			"section_id": bson.M{"bsonType": "string"},
			"user_email": bson.M{"bsonType": "string"},
			"action":     bson.M{"enum": bson.A{"create", "update", "delete"}},
		},
	}}
}
