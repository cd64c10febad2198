// internal/query/counter.go
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/metrics"
	"spa-registry/internal/models"
	"spa-registry/internal/store"

	"github.com/redis/go-redis/v9"
)

var countTables = map[string]string{
	models.EntitySpa:       "spas",
	models.EntityTherapist: "therapists",
}

// Counter returns per-status counts cached in Redis. Entries are keyed by a
// per-entity generation that Invalidate bumps after every committed transition,
// so a reader that counted before the commit writes to a generation nobody reads.
type Counter struct {
	db     store.DBTX
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCounter(db store.DBTX, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *Counter {
	return &Counter{db: db, rdb: rdb, ttl: ttl, logger: log}
}

// GenerationKey holds the current cache generation of an entity's counts.
func GenerationKey(entityType string) string {
	return "counts:" + entityType + ":gen"
}

// CountsKey is the cache key of an entity's counts at a generation.
func CountsKey(entityType string, generation int64) string {
	return fmt.Sprintf("counts:%s:%d", entityType, generation)
}

// CountByStatus returns status -> count for spas or therapists. Cache failures fall
// back to the database.
func (c *Counter) CountByStatus(ctx context.Context, entityType string) (map[string]int, error) {
	table, ok := countTables[entityType]
	if !ok {
		return nil, apperrors.NewValidationError("unknown entity type",
			apperrors.FieldError{Field: "entityType", Message: fmt.Sprintf("%q is not countable", entityType)})
	}

	gen, cacheable := c.generation(ctx, entityType)
	key := CountsKey(entityType, gen)
	if cacheable {
		cached, err := c.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			var counts map[string]int
			if jsonErr := json.Unmarshal([]byte(cached), &counts); jsonErr == nil {
				metrics.CountsCacheLookups.WithLabelValues(entityType, "hit").Inc()
				return counts, nil
			}
			c.logger.Warn("discarding unreadable counts cache entry", map[string]interface{}{"key": key})
		case errors.Is(err, redis.Nil):
		default:
			c.logger.Warn("counts cache read failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	metrics.CountsCacheLookups.WithLabelValues(entityType, "miss").Inc()

	counts, err := c.countFromStore(ctx, table)
	if err != nil {
		return nil, err
	}
	if !cacheable {
		return counts, nil
	}

	if payload, err := json.Marshal(counts); err == nil {
		if err := c.rdb.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
			c.logger.Warn("counts cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return counts, nil
}

// generation reads the current generation; false means Redis could not be read
// and the result must not be cached.
func (c *Counter) generation(ctx context.Context, entityType string) (int64, bool) {
	gen, err := c.rdb.Get(ctx, GenerationKey(entityType)).Int64()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		c.logger.Warn("counts generation read failed", map[string]interface{}{"entityType": entityType, "error": err})
		return 0, false
	}
}

// Invalidate moves an entity type to a new cache generation.
func (c *Counter) Invalidate(ctx context.Context, entityType string) error {
	if _, ok := countTables[entityType]; !ok {
		return nil
	}
	return c.rdb.Incr(ctx, GenerationKey(entityType)).Err()
}

func (c *Counter) countFromStore(ctx context.Context, table string) (map[string]int, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM "+table+" GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count %s by status: %w", table, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", table, err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
