package runetracker

import (
	"testing"
	"time"
)

func TestRecorderBuffersAndDrains(t *testing.T) {
	r := NewRecorder()
	fixed := time.Date(2023, 1, 1, 0, 0, 0, 123_000_000, time.Local)
	r.now = func() time.Time { return fixed }

	r.RecordState(1, true)
	r.RecordState(2, false)
	r.RecordState(1, true)

	batch := r.Drain()
	if len(batch) != 3 {
		t.Fatalf("expected 3 records, got %d", len(batch))
	}
	wantFlags := []uint32{1, 2, 1}
	wantStates := []bool{true, false, true}
	for i, e := range batch {
		if e.Flag != wantFlags[i] {
			t.Fatalf("record %d: expected flag %d, got %d", i, wantFlags[i], e.Flag)
		}
		if state, ok := e.Value.State(); !ok || state != wantStates[i] {
			t.Fatalf("record %d: expected state %v, got %v ok=%v", i, wantStates[i], state, ok)
		}
		if !e.Time.Equal(fixed) {
			t.Fatalf("record %d: unexpected timestamp %s", i, e.Time)
		}
	}

	if again := r.Drain(); len(again) != 0 {
		t.Fatalf("second immediate drain must be empty, got %d", len(again))
	}
}

func TestRecorderEventFlagState(t *testing.T) {
	r := NewRecorder()

	if r.EventFlagState(9) {
		t.Fatalf("unrecorded flag must read false")
	}

	r.RecordState(9, true)
	r.Drain()

	// Live truth survives the drain; it is not buffered history.
	if !r.EventFlagState(9) {
		t.Fatalf("expected live state true after drain")
	}

	r.RecordQuantity(10, 0)
	if r.EventFlagState(10) {
		t.Fatalf("zero quantity must read false")
	}
	r.RecordQuantity(10, 5)
	if !r.EventFlagState(10) {
		t.Fatalf("non-zero quantity must read true")
	}
}

func TestRecorderCustomStorage(t *testing.T) {
	storage := NewMemBuffer()
	r := NewRecorder(RecorderStorage(storage))

	r.RecordQuantity(3, 7)
	if storage.Len() != 1 {
		t.Fatalf("expected record to land in the provided storage")
	}
	if got := DrainBufferedFlags(r); len(got) != 1 {
		t.Fatalf("expected derived drain to see the record, got %d", len(got))
	}
	if storage.Len() != 0 {
		t.Fatalf("derived drain must empty the storage")
	}
}
