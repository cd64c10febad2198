package query

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitDuringCount runs onQuery before delegating, standing in for a transition
// that commits while the counts are being read.
type commitDuringCount struct {
	*sql.DB
	onQuery func()
}

func (d commitDuringCount) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if d.onQuery != nil {
		d.onQuery()
	}
	return d.DB.QueryContext(ctx, query, args...)
}

func TestCounter_CacheMissQueriesAndStores(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("counts:spa:gen").RedisNil()
	redisMock.ExpectGet("counts:spa:0").RedisNil()
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM spas GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("verified", 5))
	redisMock.ExpectSet("counts:spa:0", `{"pending":3,"verified":5}`, time.Minute).SetVal("OK")

	c := NewCounter(db, rdb, time.Minute, logger.NewTestLogger(t))
	counts, err := c.CountByStatus(context.Background(), "spa")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pending": 3, "verified": 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCounter_CacheHitSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("counts:therapist:gen").SetVal("4")
	redisMock.ExpectGet("counts:therapist:4").SetVal(`{"approved":2}`)

	c := NewCounter(db, rdb, time.Minute, logger.NewTestLogger(t))
	counts, err := c.CountByStatus(context.Background(), "therapist")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"approved": 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCounter_RedisDownFallsBackToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("counts:spa:gen").SetErr(stderrors.New("connection refused"))
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 1))

	c := NewCounter(db, rdb, time.Minute, logger.NewTestLogger(t))
	counts, err := c.CountByStatus(context.Background(), "spa")
	require.NoError(t, err)
	assert.Equal(t, 1, counts["pending"])
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCounter_CacheWriteFailureStillReturnsCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	rdb, redisMock := redismock.NewClientMock()

	redisMock.ExpectGet("counts:spa:gen").SetVal("2")
	redisMock.ExpectGet("counts:spa:2").RedisNil()
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 1))
	redisMock.ExpectSet("counts:spa:2", `{"pending":1}`, time.Minute).SetErr(stderrors.New("connection refused"))

	c := NewCounter(db, rdb, time.Minute, logger.NewTestLogger(t))
	counts, err := c.CountByStatus(context.Background(), "spa")
	require.NoError(t, err)
	assert.Equal(t, 1, counts["pending"])
}

func TestCounter_UnknownEntity(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	c := NewCounter(nil, rdb, time.Minute, logger.NewNoOpLogger())

	_, err := c.CountByStatus(context.Background(), "notification")
	assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
}

func TestCounter_InvalidateBumpsGeneration(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectIncr("counts:therapist:gen").SetVal(1)

	c := NewCounter(nil, rdb, time.Minute, logger.NewNoOpLogger())
	require.NoError(t, c.Invalidate(context.Background(), "therapist"))
	require.NoError(t, c.Invalidate(context.Background(), "notification"))
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCounter_InvalidateWithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 1))
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 0).AddRow("verified", 1))

	c := NewCounter(db, rdb, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	first, err := c.CountByStatus(ctx, "spa")
	require.NoError(t, err)
	assert.Equal(t, 1, first["pending"])
	assert.True(t, mr.Exists("counts:spa:0"))

	cached, err := c.CountByStatus(ctx, "spa")
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, c.Invalidate(ctx, "spa"))
	gen, err := mr.Get("counts:spa:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	fresh, err := c.CountByStatus(ctx, "spa")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh["verified"])
	assert.True(t, mr.Exists("counts:spa:1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounter_CommitDuringReadDoesNotPoisonCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// The first read counts pre-commit rows while a transition commits and
	// invalidates; the second read must see the post-commit rows.
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 1))
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("verified", 1))

	ctx := context.Background()
	var c *Counter
	committed := false
	racing := commitDuringCount{DB: db, onQuery: func() {
		if !committed {
			committed = true
			require.NoError(t, c.Invalidate(ctx, "spa"))
		}
	}}
	c = NewCounter(racing, rdb, time.Minute, logger.NewTestLogger(t))

	stale, err := c.CountByStatus(ctx, "spa")
	require.NoError(t, err)
	assert.Equal(t, 1, stale["pending"])

	fresh, err := c.CountByStatus(ctx, "spa")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"verified": 1}, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}
