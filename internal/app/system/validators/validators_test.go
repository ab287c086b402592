package validators

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratahandbook/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := EnsureAll(ctx, db); err != nil {
			t.Fatalf("EnsureAll run %d: %v", i+1, err)
		}
	}
	for _, name := range []string{"sections", "edit_logs", "oauth_states"} {
		if ok, err := collectionExists(ctx, db, name); err != nil || !ok {
			t.Errorf("collection %s: exists=%v err=%v", name, ok, err)
		}
	}
}

func TestEnsureCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := ensureCollection(ctx, db, "scratch")
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	created, err = ensureCollection(ctx, db, "scratch")
	if err != nil || created {
		t.Errorf("second call: created=%v err=%v", created, err)
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		phrase string
		want   bool
	}{
		{"nil", nil, codeNamespaceExists, "already exists", false},
		{"by code", mongo.CommandError{Code: 48, Message: "collection exists"}, codeNamespaceExists, "already exists", true},
		{"by message", mongo.CommandError{Code: 1, Message: "Collection already exists"}, codeNamespaceExists, "already exists", true},
		{"plain error", errors.New("namespace already exists"), codeNamespaceExists, "already exists", true},
		{"other", mongo.CommandError{Code: 2, Message: "bad value"}, codeNamespaceExists, "already exists", false},
	}
	for _, tt := range tests {
		if got := hasCode(tt.err, tt.code, tt.phrase); got != tt.want {
			t.Errorf("%s: hasCode = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUnsupported(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{mongo.CommandError{Code: 59, Message: "no such cmd"}, true},
		{mongo.CommandError{Code: 115, Message: "x"}, true},
		{errors.New("Feature not supported: collMod"), true},
		{mongo.CommandError{Code: 121, Message: "document failed validation"}, false},
	}
	for _, tt := range tests {
		if got := unsupported(tt.err); got != tt.want {
			t.Errorf("unsupported(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestSectionsSchema_AcceptsLegacyContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	docs := []bson.M{
		{"_id": "a", "title": "A", "order": 1, "subsections": bson.A{bson.M{"id": "s", "title": "t", "content": "한 줄"}}},
		{"_id": "b", "title": "B", "order": 2, "subsections": bson.A{bson.M{"id": "s", "title": "t", "content": bson.A{"x", "y"}}}},
	}
	for _, d := range docs {
		if _, err := db.Collection("sections").InsertOne(ctx, d); err != nil {
			t.Errorf("InsertOne(%v) error = %v", d["_id"], err)
		}
	}

	rejects := []bson.M{
		{"_id": "c", "order": 3},
		{"_id": "d", "title": "D", "order": 4, "subsections": bson.A{bson.M{"title": "t", "slug": "Bad Slug"}}},
	}
	for _, d := range rejects {
		if _, err := db.Collection("sections").InsertOne(ctx, d); err == nil {
			t.Errorf("section %v should be rejected", d["_id"])
		}
	}
}

func TestEditLogsSchema_RejectsUnknownAction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	_, err := db.Collection("edit_logs").InsertOne(ctx, bson.M{
		"timestamp":  time.Now(),
		"section_id": "faq",
		"action":     "rename",
	})
	if err == nil {
		t.Error("edit log entry with unknown action should be rejected")
	}
}
