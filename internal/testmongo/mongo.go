// Package testmongo supplies a MongoDB connection string to integration tests.
package testmongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// URI returns MONGODB_URI when set. Otherwise, when TESTCONTAINERS=1, it
// starts a disposable single-node replica set (transactions need one) and
// returns its URI. With neither, the test is skipped.
func URI(tb testing.TB) string {
	tb.Helper()

	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	if os.Getenv("TESTCONTAINERS") != "1" {
		tb.Skip("MONGODB_URI not set and TESTCONTAINERS!=1; skipping integration test")
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		tb.Fatalf("start mongodb container: %v", err)
	}

	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			tb.Errorf("terminate mongodb container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		tb.Fatalf("build mongodb connection string: %v", err)
	}
	return uri
}
