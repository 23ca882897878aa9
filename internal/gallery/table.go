package gallery

import "sync"

// Table is the append-only body of the gallery table. Rows are never removed.
type Table struct {
	mu   sync.Mutex
	rows []Row
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Append(rows ...Row) {
	if len(rows) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rows...)
}

// Rows returns a snapshot of the rows appended so far
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}
