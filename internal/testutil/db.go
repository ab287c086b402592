// Package testutil holds the shared fixtures for handbook tests: a Mongo
// database per test, request builders with a signed-in user, and a booted
// template engine.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dalemusser/stratahandbook/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultMongoURI is used unless HANDBOOK_TEST_MONGO_URI is set.
const defaultMongoURI = "mongodb://localhost:27017"

// dbPrefix names every test database; Mongo caps names at 63 bytes.
const dbPrefix = "handbook_test_"

var (
	connectOnce sync.Once
	shared      *mongo.Client
	connectErr  error
)

func mongoURI() string {
	if uri := os.Getenv("HANDBOOK_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return defaultMongoURI
}

func connect() (*mongo.Client, error) {
	connectOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(mongoURI()).
			SetMaxPoolSize(100).
			SetServerSelectionTimeout(5 * time.Second)

		shared, connectErr = mongo.Connect(ctx, opts)
		if connectErr == nil {
			connectErr = shared.Ping(ctx, nil)
		}
	})
	return shared, connectErr
}

// SetupTestDB returns an empty database with the production indexes,
// dropped again when the test ends. Tests are skipped when no Mongo
// server is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := connect()
	if err != nil {
		t.Skipf("mongo unavailable at %s: %v", mongoURI(), err)
	}

	db := client.Database(dbName(t.Name()))
	ctx, cancel := TestContext()
	defer cancel()

	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop %s: %v", db.Name(), err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop %s on cleanup: %v", db.Name(), err)
		}
	})
	return db
}

// dbName maps a test name to a database name. Long names keep a readable
// head and a hash of the whole name so subtests stay distinct.
func dbName(test string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, test)

	const room = 63 - len(dbPrefix)
	if len(clean) > room {
		clean = fmt.Sprintf("%s_%x", clean[:room-17], xxhash.Sum64String(test))
	}
	return dbPrefix + clean
}

// TestContext returns a context bounded for a single test's store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
