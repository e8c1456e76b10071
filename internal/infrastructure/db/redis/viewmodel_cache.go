package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aymaseguros/portal-api/internal/core/domain"
)

// ViewModelCache keeps the last successfully published dashboard per
// session. Key format: viewmodel:<sid>. The whole model is stored as
// one JSON value, so replacement is atomic.
type ViewModelCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewViewModelCache(client *redis.Client, ttl time.Duration) *ViewModelCache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &ViewModelCache{client: client, ttl: ttl}
}

func (c *ViewModelCache) Put(ctx context.Context, sid string, vm domain.ViewModel) error {
	blob, err := json.Marshal(vm)
	if err != nil {
		return fmt.Errorf("marshal viewmodel: %w", err)
	}
	return c.client.Set(ctx, viewModelKey(sid), blob, c.ttl).Err()
}

func (c *ViewModelCache) Get(ctx context.Context, sid string) (domain.ViewModel, bool, error) {
	blob, err := c.client.Get(ctx, viewModelKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ViewModel{}, false, nil
	}
	if err != nil {
		return domain.ViewModel{}, false, fmt.Errorf("get viewmodel: %w", err)
	}

	var vm domain.ViewModel
	if err := json.Unmarshal(blob, &vm); err != nil {
		// A stale or corrupt cache entry is dropped, not surfaced.
		_ = c.Drop(ctx, sid)
		return domain.ViewModel{}, false, nil
	}
	return vm, true, nil
}

func (c *ViewModelCache) Drop(ctx context.Context, sid string) error {
	return c.client.Del(ctx, viewModelKey(sid)).Err()
}

func viewModelKey(sid string) string { return "viewmodel:" + sid }
