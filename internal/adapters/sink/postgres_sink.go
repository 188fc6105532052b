package sink

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// PostgresSink batch-inserts drained records. State and quantity payloads land
// in separate nullable columns keyed by the value kind.
type PostgresSink struct {
	db        *sql.DB
	tableName string
}

func NewPostgresSink(db *sql.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, tableName: table}
}

func (p *PostgresSink) Name() string { return "postgres" }

func (p *PostgresSink) WriteBatch(records []domain.EventFlag) error {
	if len(records) == 0 {
		return nil
	}

	// Idempotent via unique key so a retried batch never duplicates rows.
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(p.tableName)
	b.WriteString(" (ts, flag, kind, state, quantity) VALUES ")

	args := make([]any, 0, len(records)*5)
	for i, e := range records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4, len(args)+5))

		var (
			kind     string
			state    any
			quantity any
		)
		if q, ok := e.Value.Quantity(); ok {
			kind = "quantity"
			quantity = q
		} else {
			s, _ := e.Value.State()
			kind = "state"
			state = s
		}

		args = append(args, e.Time, int64(e.Flag), kind, state, quantity)
	}

	b.WriteString(" ON CONFLICT (ts, flag, kind) DO NOTHING")

	_, err := p.db.Exec(b.String(), args...)
	return err
}

var _ ports.Sink = (*PostgresSink)(nil)
