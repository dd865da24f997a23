package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/reference"
	"github.com/prometheus/client_golang/prometheus"
)

// Memo permanently remembers values loaded by key. Concurrent misses on one
// key may each call load; the loaded values are identical, so the last
// store wins harmlessly. Failed loads are not remembered.
type Memo[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
	load   func(ctx context.Context, key K) (V, error)

	hits   prometheus.Counter
	misses prometheus.Counter
	errors prometheus.Counter
}

func NewMemo[K comparable, V any](name string, load func(ctx context.Context, key K) (V, error)) *Memo[K, V] {
	return &Memo[K, V]{
		values: make(map[K]V),
		load:   load,
		hits:   cacheOperationsTotal.WithLabelValues(name, "get", "hit"),
		misses: cacheOperationsTotal.WithLabelValues(name, "get", "miss"),
		errors: cacheOperationsTotal.WithLabelValues(name, "get", "error"),
	}
}

func (m *Memo[K, V]) Get(ctx context.Context, key K) (V, error) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Inc()
		return v, nil
	}

	v, err := m.load(ctx, key)
	if err != nil {
		m.errors.Inc()
		var zero V
		return zero, err
	}
	m.misses.Inc()

	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()
	return v, nil
}

// Len is the number of remembered keys.
func (m *Memo[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// References resolves privacy, rating and media type codes to labels.
// A code with no row in its table is a data integrity fault and resolves to
// common.ErrorInternal.
type References struct {
	privacy   *Memo[int, models.Privacy]
	ratings   *Memo[int, models.Rating]
	mediaType *Memo[int, models.MediaType]
}

func NewReferences(repo reference.Repository) *References {
	return &References{
		privacy:   NewMemo("privacy", integrity(repo.Privacy)),
		ratings:   NewMemo("rating", integrity(repo.Rating)),
		mediaType: NewMemo("media_type", integrity(repo.MediaType)),
	}
}

func (r *References) Privacy(ctx context.Context, id int) (models.Privacy, error) {
	return r.privacy.Get(ctx, id)
}

func (r *References) Rating(ctx context.Context, id int) (models.Rating, error) {
	return r.ratings.Get(ctx, id)
}

func (r *References) MediaType(ctx context.Context, id int) (models.MediaType, error) {
	return r.mediaType.Get(ctx, id)
}

func integrity[V any](load func(context.Context, int) (V, error)) func(context.Context, int) (V, error) {
	return func(ctx context.Context, id int) (V, error) {
		v, err := load(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return v, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		return v, err
	}
}
