package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

// Set PATHQUERY_TEST_MONGO_URI (e.g. mongodb://localhost:27017) to run.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PATHQUERY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PATHQUERY_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{
		URI:        uri,
		Database:   "pathquery_test",
		Collection: "networks_" + uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Drop(context.Background())
		_ = s.Close()
	})
	testStore(t, s)
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoOptions{}); err == nil {
		t.Error("empty uri should fail")
	}
}
