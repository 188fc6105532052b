package journal

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// ErrJournalClosed is returned when a closed journal is written to.
var ErrJournalClosed = errors.New("journal: closed")

const recordHeaderLen = 12

// EntryID identifies one journal entry; ids are sequential and start at 1.
type EntryID uint64

// Journal is an append-only on-disk log of drained event flag records, used
// as an offline-readable output format. It is not a recovery mechanism; a
// record only reaches the journal once a drain hands it over.
type Journal struct {
	mu        sync.Mutex
	path      string
	file      *os.File
	writer    *bufio.Writer
	nextID    EntryID
	sizeBytes int64
	closed    bool
}

func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "events.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	j := &Journal{
		path:   path,
		file:   f,
		writer: bufio.NewWriterSize(f, 1<<20),
	}
	if err := j.scanExisting(); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := j.file.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}
	return j, nil
}

// scanExisting walks the log to recover the next entry id and truncates any
// partially written tail left by a crash mid-append.
func (j *Journal) scanExisting() error {
	stat, err := os.Stat(j.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err != nil || stat.Size() == 0 {
		return nil
	}

	rf, err := os.Open(j.path)
	if err != nil {
		return err
	}
	defer rf.Close()

	reader := bufio.NewReader(rf)
	var (
		offset int64
		lastID EntryID
	)

	for {
		var hdr [recordHeaderLen]byte
		if _, err := io.ReadFull(reader, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("journal scan header: %w", err)
		}
		id := EntryID(binary.BigEndian.Uint64(hdr[0:8]))
		length := binary.BigEndian.Uint32(hdr[8:12])

		if length > 0 {
			if _, err := io.CopyN(io.Discard, reader, int64(length)); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					break
				}
				return fmt.Errorf("journal scan body: %w", err)
			}
		}
		offset += recordHeaderLen + int64(length)
		lastID = id
	}

	if err := j.file.Truncate(offset); err != nil {
		return err
	}
	j.sizeBytes = offset
	j.nextID = lastID
	return nil
}

func (j *Journal) Name() string { return "journal" }

// WriteBatch appends every record of the batch, in order, each framed as
// [8 bytes id][4 bytes len][len bytes json].
func (j *Journal) WriteBatch(records []domain.EventFlag) error {
	if len(records) == 0 {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrJournalClosed
	}

	for _, e := range records {
		id := j.nextID + 1

		b, err := json.Marshal(e)
		if err != nil {
			return err
		}

		var hdr [recordHeaderLen]byte
		binary.BigEndian.PutUint64(hdr[0:8], uint64(id))
		binary.BigEndian.PutUint32(hdr[8:12], uint32(len(b)))

		if _, err := j.writer.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := j.writer.Write(b); err != nil {
			return err
		}

		j.nextID = id
		j.sizeBytes += int64(len(b) + len(hdr))
	}

	return j.writer.Flush()
}

// Iterate replays entries with id >= from, in id order.
func (j *Journal) Iterate(from EntryID, fn func(id EntryID, e domain.EventFlag) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.closed {
		if err := j.writer.Flush(); err != nil {
			return err
		}
	}

	f, err := os.Open(j.path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	for {
		var hdr [recordHeaderLen]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("journal iterate header: %w", err)
		}
		id := EntryID(binary.BigEndian.Uint64(hdr[0:8]))
		l := binary.BigEndian.Uint32(hdr[8:12])

		b := make([]byte, l)
		if _, err := io.ReadFull(r, b); err != nil {
			return fmt.Errorf("corrupt journal entry: %w", err)
		}
		if id < from {
			continue
		}

		var e domain.EventFlag
		if err := json.Unmarshal(b, &e); err != nil {
			return fmt.Errorf("corrupt journal entry: %w", err)
		}
		if err := fn(id, e); err != nil {
			return err
		}
	}
}

// Stats reports the latest appended id and the on-disk size.
func (j *Journal) Stats() (latest EntryID, sizeBytes int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextID, j.sizeBytes
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	if err := j.writer.Flush(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}

var _ ports.Sink = (*Journal)(nil)
