package repository

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"soil_monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newSoilMock(t *testing.T) (*SoilSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	return NewSoilSQLite(db), mock, func() { _ = db.Close() }
}

func TestSaveCurrent_UpsertsSingletonRow(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO soil_current`)).
		WithArgs(1, 42.5, int64(1718458620000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveCurrent(ctx(t), models.MoistureReading{Moisture: 42.5, Timestamp: 1718458620000})
	if err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestLoadCurrent_NoRowsMeansNoData(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT moisture, ts FROM soil_current`)).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	reading, err := repo.LoadCurrent(ctx(t))
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if reading.Moisture != 0 || reading.Timestamp != 0 {
		t.Fatalf("expected zero reading, got %+v", reading)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestLoadCurrent_ReturnsStoredReading(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"moisture", "ts"}).AddRow(55.2, int64(1718458620000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT moisture, ts FROM soil_current`)).
		WithArgs(1).
		WillReturnRows(rows)

	reading, err := repo.LoadCurrent(ctx(t))
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if reading.Moisture != 55.2 || reading.Timestamp != 1718458620000 {
		t.Fatalf("unexpected reading: %+v", reading)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppendReading_NewDateCreatesDocument(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM soil_history`)).
		WithArgs("2024-06-15").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO soil_history`)).
		WithArgs("2024-06-15", `{"13":{"moisture":42.5,"timestamp":1718458620000}}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AppendReading(ctx(t), "2024-06-15", "13",
		models.MoistureReading{Moisture: 42.5, Timestamp: 1718458620000})
	if err != nil {
		t.Fatalf("AppendReading: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppendReading_MergePreservesOtherSlots(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	existing := `{"08":{"moisture":30,"timestamp":1718438400000}}`

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM soil_history`)).
		WithArgs("2024-06-15").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(existing))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO soil_history`)).
		WithArgs("2024-06-15", docWithSlots(t, "08", "13")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AppendReading(ctx(t), "2024-06-15", "13",
		models.MoistureReading{Moisture: 42.5, Timestamp: 1718458620000})
	if err != nil {
		t.Fatalf("AppendReading: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

// docWithSlots matches an upserted day document that holds exactly the given
// slot keys. Go map iteration makes the serialized key order unpredictable,
// so a plain string match would flake.
func docWithSlots(t *testing.T, slots ...string) sqlmock.Argument {
	t.Helper()
	return docSlotsMatcher{slots: slots}
}

type docSlotsMatcher struct {
	slots []string
}

func (m docSlotsMatcher) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	day := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(s), &day); err != nil {
		return false
	}
	if len(day) != len(m.slots) {
		return false
	}
	for _, slot := range m.slots {
		if _, ok := day[slot]; !ok {
			return false
		}
	}
	return true
}

func TestAppendReading_BeginError(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err := repo.AppendReading(ctx(t), "2024-06-15", "13", models.MoistureReading{Moisture: 1})
	if err == nil {
		t.Fatal("expected begin error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestGetDay_AbsentDateReturnsNil(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM soil_history`)).
		WithArgs("2024-06-15").
		WillReturnError(sql.ErrNoRows)

	raw, err := repo.GetDay(ctx(t), "2024-06-15")
	if err != nil {
		t.Fatalf("GetDay: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected nil document, got %s", raw)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestGetDay_ReturnsRawDocument(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	doc := `{"08":{"moisture":30,"timestamp":1718438400000}}`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM soil_history`)).
		WithArgs("2024-06-15").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(doc))

	raw, err := repo.GetDay(ctx(t), "2024-06-15")
	if err != nil {
		t.Fatalf("GetDay: %v", err)
	}
	if string(raw) != doc {
		t.Fatalf("document mismatch: %s", raw)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestYears_SkipsMalformedKeys(t *testing.T) {
	t.Parallel()

	repo, mock, done := newSoilMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"year"}).
		AddRow("2025").
		AddRow("junk").
		AddRow("2024")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT substr(date, 1, 4) FROM soil_history`)).
		WillReturnRows(rows)

	years, err := repo.Years(ctx(t))
	if err != nil {
		t.Fatalf("Years: %v", err)
	}
	if len(years) != 2 || years[0] != 2025 || years[1] != 2024 {
		t.Fatalf("years = %v", years)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
