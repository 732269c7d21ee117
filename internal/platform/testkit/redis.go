// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testkit

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// Redis connects to TEST_REDIS_URL, skipping the test when it is unset.
// Used by tests behind the "integration" build tag.
func Redis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("testkit: invalid TEST_REDIS_URL: %v", err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("testkit: redis unreachable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
