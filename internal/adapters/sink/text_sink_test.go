package sink

import (
	"bytes"
	"testing"
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
)

func TestTextSinkWritesDisplayLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTextSink(&buf)

	ts := time.Date(2023, 1, 1, 0, 0, 0, 123_000_000, time.Local)
	records := []domain.EventFlag{
		domain.FromState(ts, 7, true),
		domain.FromQuantity(ts, 42, -5),
	}

	if err := sink.WriteBatch(records); err != nil {
		t.Fatalf("write batch: %v", err)
	}

	want := "2023-01-01 00:00:00.123 -          7 - true\n" +
		"2023-01-01 00:00:00.123 -         42 - -5\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestTextSinkEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTextSink(&buf)

	if err := sink.WriteBatch(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty batch must write nothing, got %q", buf.String())
	}
}
