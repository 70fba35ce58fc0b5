package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/config"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	"github.com/redis/go-redis/v9"
)

const (
	reportKeyPrefix = "report:view"
	scanBatchSize   = 100
)

// ReportCache stores computed views keyed by view name and the snapshot
// identifier of the dataset they were computed from. A snapshot change
// naturally misses; stale entries for old snapshots age out via TTL.
type ReportCache interface {
	Get(ctx context.Context, view, snapshot string) (*report.Result, bool, error)
	Set(ctx context.Context, view, snapshot string, result *report.Result) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) Get(ctx context.Context, view, snapshot string) (*report.Result, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(view, snapshot)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result report.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, view, snapshot string, result *report.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(view, snapshot), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix, scanBatchSize)
}

func (n *noopReportCache) Get(ctx context.Context, view, snapshot string) (*report.Result, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) Set(ctx context.Context, view, snapshot string, result *report.Result) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(view, snapshot string) string {
	if snapshot == "" {
		snapshot = "default"
	}
	return fmt.Sprintf("%s:%s:%s", reportKeyPrefix, snapshot, view)
}
