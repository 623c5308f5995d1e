package utils

import (
	"log"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultViewerWindowTTL is how long a viewer key counts as "active" on a
// recipe. Within the window, repeated views from the same key are idempotent.
const DefaultViewerWindowTTL = 5 * time.Minute

// ViewerWindow is an ephemeral keyed expiring set, process-wide. It backs
// view counting and the live "active viewers" figure; nothing here is
// persisted.
type ViewerWindow struct {
	mu       sync.Mutex
	lruCache *lru.Cache[string, time.Time]
	ttl      time.Duration
}

func NewViewerWindow(ttl time.Duration) *ViewerWindow {
	l, err := lru.New[string, time.Time](4096)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &ViewerWindow{
		lruCache: l,
		ttl:      ttl,
	}
}

// Record notes a view of recipeID by viewerKey. It returns true only when
// the key was not already present within the window, so callers increment
// the persistent counter at most once per key per window.
func (w *ViewerWindow) Record(recipeID, viewerKey string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := recipeID + ":" + viewerKey
	expiresAt, ok := w.lruCache.Get(key)
	if ok && time.Now().Before(expiresAt) {
		return false
	}
	w.lruCache.Add(key, time.Now().Add(w.ttl))
	return true
}

// ActiveViewers returns the number of distinct viewer keys currently inside
// the window for the recipe.
func (w *ViewerWindow) ActiveViewers(recipeID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := recipeID + ":"
	now := time.Now()
	count := 0
	for _, key := range w.lruCache.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if expiresAt, ok := w.lruCache.Peek(key); ok {
			if now.Before(expiresAt) {
				count++
			} else {
				w.lruCache.Remove(key)
			}
		}
	}
	return count
}
