package query

import (
	"context"
	"database/sql/driver"
	"math"
	"regexp"
	"testing"
	"time"

	"spa-registry/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spaRow(id int64, status string) []driver.Value {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "SPA-1A2B3C4D", "Lotus Spa", "", "lotus@example.lk", "", "", "Colombo",
		status, nil, nil, nil, nil, nil,
		nil, "unpaid", nil, nil, nil,
		nil, now, now,
	}
}

// ==========================
// Filter Tests
// ==========================

func TestParseFilterSpec_IgnoresUnknownKeys(t *testing.T) {
	f := ParseFilterSpec(map[string]string{
		"status":            "pending",
		"Payment_Status":    "paid",
		"search":            "  lotus ",
		"spa_id":            "7",
		"1=1; DROP TABLE x": "y",
		"district":          "",
	})

	assert.Equal(t, "pending", f.Status)
	assert.Equal(t, "paid", f.PaymentStatus)
	assert.Equal(t, "lotus", f.Search)
	require.NotNil(t, f.SpaID)
	assert.Equal(t, int64(7), *f.SpaID)
	assert.Equal(t, "", f.District)

	assert.Nil(t, ParseFilterSpec(map[string]string{"spa_id": "abc"}).SpaID)
}

func TestStringValues_NumbersParseAsSpaID(t *testing.T) {
	values := StringValues(map[string]interface{}{
		"spa_id": float64(12),
		"status": "approved",
		"nested": map[string]interface{}{"x": 1},
	})
	assert.Equal(t, map[string]string{"spa_id": "12", "status": "approved"}, values)

	f := ParseFilterSpec(values)
	require.NotNil(t, f.SpaID)
	assert.Equal(t, int64(12), *f.SpaID)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit int
		wantPage    int
		wantLimit   int
		wantOffset  int
	}{
		{0, 0, 1, 20, 0},
		{-3, -1, 1, 20, 0},
		{2, 10, 2, 10, 10},
		{3, 500, 3, 100, 200},
		{math.MaxInt / 10, 100, math.MaxInt / 100, 100, (math.MaxInt/100 - 1) * 100},
		{math.MaxInt, 1, math.MaxInt, 1, math.MaxInt - 1},
	}
	for _, tt := range tests {
		p := NewPagination(tt.page, tt.limit, DefaultLimits)
		assert.Equal(t, tt.wantPage, p.Page)
		assert.Equal(t, tt.wantLimit, p.Limit)
		assert.Equal(t, tt.wantOffset, p.Offset())
		assert.GreaterOrEqual(t, p.Offset(), 0)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(23, 10))
}

func TestLikePattern_EscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `%50\% off\_now\\%`, likePattern(`50% off_now\`))
}

func TestTherapistStatusFilter(t *testing.T) {
	assert.Equal(t, FilterSpec{Status: "approved"}, TherapistStatusFilter(" approved "))
}

// ==========================
// Listing Tests
// ==========================

func TestListSpas_PendingSecondPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM spas WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))

	rows := sqlmock.NewRows(store.SpaColumns)
	for i := int64(11); i <= 20; i++ {
		rows.AddRow(spaRow(i, "pending")...)
	}
	mock.ExpectQuery(`FROM spas WHERE status = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("pending", 10, 10).
		WillReturnRows(rows)

	l := NewLister(db, DefaultLimits)
	page, err := l.ListSpas(context.Background(), FilterSpec{Status: "pending"}, 2, 10)
	require.NoError(t, err)

	assert.Len(t, page.Items, 10)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSpas_SearchAndDistrict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	where := "WHERE district = $1 AND (name ILIKE $2 OR email ILIKE $2 OR reference_number ILIKE $2)"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM spas "+where)).
		WithArgs("Colombo", "%lotus%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(where+" ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4")).
		WithArgs("Colombo", "%lotus%", 20, 0).
		WillReturnRows(sqlmock.NewRows(store.SpaColumns))

	l := NewLister(db, DefaultLimits)
	page, err := l.ListSpas(context.Background(), FilterSpec{District: "Colombo", Search: "lotus"}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTherapists_BindsPerEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM therapists WHERE \(SELECT r.request_status FROM therapist_requests r.+\) = \$1 AND spa_id IN \(SELECT id FROM spas WHERE district = \$2\) AND spa_id = \$3`).
		WithArgs("rejected", "Kandy", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM therapists WHERE .+ LIMIT \$4 OFFSET \$5`).
		WithArgs("rejected", "Kandy", int64(7), 20, 0).
		WillReturnRows(sqlmock.NewRows(store.TherapistColumns))

	spaID := int64(7)
	l := NewLister(db, DefaultLimits)
	_, err = l.ListTherapists(context.Background(), FilterSpec{
		VerificationStatus: "rejected",
		District:           "Kandy",
		SpaID:              &spaID,
		PaymentStatus:      "paid",
	}, 1, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
