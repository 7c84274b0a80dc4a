// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheRoundtrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if _, ok := cache.Get("https://example.org/a"); ok {
		t.Errorf("empty cache should miss")
	}

	cache.Put("https://example.org/a", []byte(`{"message": {}}`))
	body, ok := cache.Get("https://example.org/a")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if string(body) != `{"message": {}}` {
		t.Errorf("body = %q", body)
	}
}

func TestCacheTTLEviction(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), 1*time.Millisecond)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	cache.Put("https://example.org/a", []byte("stale"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := cache.Get("https://example.org/a"); ok {
		t.Errorf("stale entry should be evicted")
	}
}

func TestCacheReplacesExisting(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	cache.Put("u", []byte("old"))
	cache.Put("u", []byte("new"))
	body, ok := cache.Get("u")
	if !ok || string(body) != "new" {
		t.Errorf("Get after replace = %q, %v", body, ok)
	}
}

func TestClientServesFromCache(t *testing.T) {
	var calls int32
	client := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, workJSON)
	})

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()
	client.Cache = cache

	for i := 0; i < 3; i++ {
		if _, err := client.Work(context.Background(), "10.1016/j.engappai.2024.109337"); err != nil {
			t.Fatalf("Work() call %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("network calls = %d, want 1 (rest from cache)", got)
	}
}
