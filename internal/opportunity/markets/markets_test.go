package markets

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marketColumns = []string{
	"country_code", "country_name", "population", "internet_penetration",
	"gdp_per_capita", "languages", "primary_search_engine", "app_stores",
}

// ==========================
// Postgres
// ==========================

func TestPostgresSource_Markets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	codes := []string{"NG", "BR"}
	mock.ExpectQuery(`SELECT country_code, country_name`).
		WithArgs(pq.Array(codes)).
		WillReturnRows(sqlmock.NewRows(marketColumns).
			AddRow("NG", "Nigeria", int64(218000000), 55.0, 2100.0, "{English,Hausa}", "Google", "{\"Google Play\",\"App Store\"}").
			AddRow("BR", "Brazil", nil, nil, nil, nil, nil, nil))

	source := NewPostgresSource(db, logger.NewTestLogger(t))
	got, err := source.Markets(context.Background(), codes)

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Market{
		CountryCode:         "NG",
		CountryName:         "Nigeria",
		Population:          218000000,
		InternetPenetration: 55,
		GDPPerCapita:        2100,
		Languages:           []string{"English", "Hausa"},
		PrimarySearchEngine: "Google",
		AppStores:           []string{"Google Play", "App Store"},
	}, got[0])

	// NULL columns fall back to zero values
	assert.Equal(t, "BR", got[1].CountryCode)
	assert.Equal(t, int64(0), got[1].Population)
	assert.Equal(t, []string{}, got[1].Languages)
	assert.Equal(t, []string{}, got[1].AppStores)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Markets_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT country_code`).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresSource(db, logger.NewNoOpLogger()).Markets(context.Background(), []string{"BR"})

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, stdErr.Code)
	assert.Equal(t, "connection reset", stdErr.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Markets_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT country_code`).WillReturnError(context.DeadlineExceeded)

	_, err = NewPostgresSource(db, logger.NewNoOpLogger()).Markets(context.Background(), []string{"BR"})

	assert.Equal(t, apperrors.ErrCodeQueryTimeout, apperrors.Normalize(err).Code)
}

func TestPostgresSource_Markets_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT country_code`).
		WillReturnRows(sqlmock.NewRows(marketColumns).
			AddRow("BR", "Brazil", "not a number", 81.0, 8900.0, "{}", "Google", "{}"))

	_, err = NewPostgresSource(db, logger.NewNoOpLogger()).Markets(context.Background(), []string{"BR"})
	assert.ErrorContains(t, err, "scan market")
}

// ==========================
// Static
// ==========================

func TestStaticSource_Seed(t *testing.T) {
	source := NewStaticSource()

	got, err := source.Markets(context.Background(), []string{"mx", "ZZ", "BR", "IN", "NG", "ID"})

	require.NoError(t, err)
	codes := make([]string, len(got))
	for i, m := range got {
		codes[i] = m.CountryCode
		assert.NotEmpty(t, m.CountryName)
		assert.Positive(t, m.Population)
		assert.Len(t, m.AppStores, 2)
	}
	assert.Equal(t, []string{"MX", "BR", "IN", "NG", "ID"}, codes)
}

func TestStaticSource_ReturnsCopies(t *testing.T) {
	source := NewStaticSource()

	first, _ := source.Markets(context.Background(), []string{"BR"})
	first[0].Languages[0] = "Klingon"

	second, _ := source.Markets(context.Background(), []string{"BR"})
	assert.Equal(t, []string{"Portuguese"}, second[0].Languages)
}

// ==========================
// Cache
// ==========================

type countingSource struct {
	inner     Source
	calls     int32
	requested [][]string
	err       error
}

func (c *countingSource) Markets(ctx context.Context, codes []string) ([]models.Market, error) {
	atomic.AddInt32(&c.calls, 1)
	c.requested = append(c.requested, codes)
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Markets(ctx, codes)
}

func TestCachedSource_OnlyMissingCodesReachInner(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingSource{inner: NewStaticSource()}
	cached := NewCachedSource(inner, rdb, time.Hour, logger.NewTestLogger(t))

	first, err := cached.Markets(context.Background(), []string{"BR", "IN"})
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := cached.Markets(context.Background(), []string{"IN", "MX", "BR"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"BR", "IN"}, {"MX"}}, inner.requested)
	require.Len(t, second, 3)
	assert.Equal(t, "IN", second[0].CountryCode)
	assert.Equal(t, "MX", second[1].CountryCode)
	assert.Equal(t, first[0], second[2])

	assert.True(t, mr.Exists("market:BR"))
	ttl := mr.TTL("market:BR")
	assert.Equal(t, time.Hour, ttl)
}

func TestCachedSource_RedisDownFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	inner := &countingSource{inner: NewStaticSource()}
	got, err := NewCachedSource(inner, rdb, time.Hour, logger.NewNoOpLogger()).
		Markets(context.Background(), []string{"ID"})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(1), inner.calls)
}

func TestCachedSource_InnerErrorPropagates(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingSource{err: errors.New("db down")}
	_, err = NewCachedSource(inner, rdb, time.Hour, logger.NewNoOpLogger()).
		Markets(context.Background(), []string{"BR"})

	assert.EqualError(t, err, "db down")
}
