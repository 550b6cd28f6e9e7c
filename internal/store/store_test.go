package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_PostgresQueryShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"attributes"}).
		AddRow(`{"donor_id":"D1","age":"34"}`).
		AddRow(`{"donor_id":"D2","age":51}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT attributes FROM donors ORDER BY id LIMIT $1")).
		WithArgs(PageSize).
		WillReturnRows(rows)

	recs, err := New(db, DriverPostgres).Scan(context.Background(), Donors)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "D1", recs[0].StringOr("N/A", "donor_id"))
	assert.Equal(t, 51.0, recs[1].FloatOr(0, "age"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScan_RejectsUnknownTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, DriverPostgres).Scan(context.Background(), "donors; DROP TABLE donors")
	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScan_SurfacesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT attributes FROM hospitals")).
		WillReturnError(sqlmock.ErrCancelled)
	_, err = New(db, DriverPostgres).Scan(context.Background(), Hospitals)
	assert.ErrorContains(t, err, "scan hospitals")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT attributes FROM hospitals")).
		WillReturnRows(sqlmock.NewRows([]string{"attributes"}).AddRow(`not json`))
	_, err = New(db, DriverPostgres).Scan(context.Background(), Hospitals)
	assert.ErrorContains(t, err, "decode hospitals record")

	var nilStore *TableStore
	_, err = nilStore.Scan(context.Background(), Hospitals)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestPut_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recipients (id, attributes) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE")).
		WithArgs("R1", `{"blood_type":"O+"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = New(db, DriverPostgres).Put(context.Background(), Recipients, "R1", Record{"blood_type": "O+"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_MigrateSeedAndPut(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Migrate(""))
	require.NoError(t, s.Migrate(""), "second run is a no-op")

	hospitals, err := s.Scan(ctx, Hospitals)
	require.NoError(t, err)
	assert.Len(t, hospitals, 4)
	assert.Equal(t, "boston", hospitals[0].StringOr("", "city"))

	require.NoError(t, s.Put(ctx, Donors, "D001", Record{"donor_id": "D001", "organ_type": "Lung"}))
	require.NoError(t, s.Put(ctx, Donors, "D900", Record{"donor_id": "D900"}))

	donors, err := s.Scan(ctx, Donors)
	require.NoError(t, err)
	require.Len(t, donors, 4)
	assert.Equal(t, "Lung", donors[0].StringOr("", "organ_type"))
	assert.Equal(t, "D900", donors[3].StringOr("", "donor_id"))
}

func TestRecordGetters(t *testing.T) {
	r := Record{"id": "", "donor_id": "D7", "age": " 42 ", "score": 88.5, "ready": true, "tags": []any{"a"}}

	assert.Equal(t, "D7", r.StringOr("N/A", "id", "donor_id"))
	assert.Equal(t, "N/A", r.StringOr("N/A", "missing"))
	assert.Equal(t, "88.5", r.StringOr("", "score"))
	assert.Equal(t, "true", r.StringOr("", "ready"))
	assert.Equal(t, `["a"]`, r.StringOr("", "tags"))

	assert.Equal(t, 42.0, r.FloatOr(0, "age"))
	assert.Equal(t, 88.5, r.FloatOr(0, "condition_score", "score"))
	assert.Equal(t, -1.0, r.FloatOr(-1, "donor_id"))
}
