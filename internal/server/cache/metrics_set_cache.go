package cache

import (
	"context"

	"github.com/dmitrijs2005/postsets/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
)

type metricsSetCache struct {
	base SetCache

	getHit   prometheus.Counter
	getMiss  prometheus.Counter
	getError prometheus.Counter
	putOK    prometheus.Counter
	putError prometheus.Counter
	rmOK     prometheus.Counter
	rmError  prometheus.Counter
}

// NewMetricsSetCache wraps base so that every operation is counted in
// postsets_cache_operations_total under the given cache name.
func NewMetricsSetCache(base SetCache, name string) SetCache {
	return &metricsSetCache{
		base:     base,
		getHit:   cacheOperationsTotal.WithLabelValues(name, "get", "hit"),
		getMiss:  cacheOperationsTotal.WithLabelValues(name, "get", "miss"),
		getError: cacheOperationsTotal.WithLabelValues(name, "get", "error"),
		putOK:    cacheOperationsTotal.WithLabelValues(name, "put", "ok"),
		putError: cacheOperationsTotal.WithLabelValues(name, "put", "error"),
		rmOK:     cacheOperationsTotal.WithLabelValues(name, "remove", "ok"),
		rmError:  cacheOperationsTotal.WithLabelValues(name, "remove", "error"),
	}
}

func (c *metricsSetCache) Get(ctx context.Context, id models.SetID) (*models.Set, bool, error) {
	set, ok, err := c.base.Get(ctx, id)
	switch {
	case err != nil:
		c.getError.Inc()
	case ok:
		c.getHit.Inc()
	default:
		c.getMiss.Inc()
	}
	return set, ok, err
}

func (c *metricsSetCache) Put(ctx context.Context, set *models.Set) error {
	err := c.base.Put(ctx, set)
	if err != nil {
		c.putError.Inc()
	} else {
		c.putOK.Inc()
	}
	return err
}

func (c *metricsSetCache) Remove(ctx context.Context, id models.SetID) error {
	err := c.base.Remove(ctx, id)
	if err != nil {
		c.rmError.Inc()
	} else {
		c.rmOK.Inc()
	}
	return err
}
