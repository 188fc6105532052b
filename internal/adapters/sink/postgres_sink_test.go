package sink

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
)

func TestPostgresSinkWriteBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink := NewPostgresSink(db, "event_flags")
	ts := time.Now()

	records := []domain.EventFlag{
		domain.FromState(ts, 100, true),
		domain.FromQuantity(ts, 200, -5),
	}

	expectedQuery := regexp.QuoteMeta("INSERT INTO event_flags (ts, flag, kind, state, quantity) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10) ON CONFLICT (ts, flag, kind) DO NOTHING")
	mock.ExpectExec(expectedQuery).
		WithArgs(ts, int64(100), "state", true, nil, ts, int64(200), "quantity", nil, int32(-5)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := sink.WriteBatch(records); err != nil {
		t.Fatalf("write batch: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSinkWriteBatchEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	sink := NewPostgresSink(db, "event_flags")
	if err := sink.WriteBatch(nil); err != nil {
		t.Fatalf("expected nil error for empty batch, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSinkName(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sink := NewPostgresSink(db, "event_flags")
	if sink.Name() != "postgres" {
		t.Fatalf("expected sink name postgres, got %s", sink.Name())
	}
}
