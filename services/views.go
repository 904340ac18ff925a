package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewDeduper remembers who viewed what for a window. A nil deduper or one
// without a client counts every view.
type ViewDeduper struct {
	client *redis.Client
	window time.Duration
}

func NewViewDeduper(client *redis.Client, window time.Duration) *ViewDeduper {
	if window <= 0 {
		window = 30 * time.Minute
	}
	return &ViewDeduper{client: client, window: window}
}

// FirstView reports whether viewerKey has not viewed the entity inside the
// window, and marks it as seen.
func (d *ViewDeduper) FirstView(ctx context.Context, entity string, id uint, viewerKey string) (bool, error) {
	if d == nil || d.client == nil || viewerKey == "" {
		return true, nil
	}
	key := fmt.Sprintf("view:%s:%d:%s", entity, id, viewerKey)
	return d.client.SetNX(ctx, key, 1, d.window).Result()
}
