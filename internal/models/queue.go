package models

import (
	"sort"
	"strings"
)

// QueueName identifies an approvable request category.
type QueueName string

const (
	QueueLeave    QueueName = "leave"
	QueueAdvance  QueueName = "advance"
	QueuePurchase QueueName = "purchase"
)

// Column headers shared by the default layouts.
const (
	ColumnDate        = "Tarih"
	ColumnRequester   = "Personel"
	ColumnStatus      = "Durum"
	ColumnManagerNote = "Yonetici Notu"
	ColumnReason      = "Aciklama"

	ColumnLeaveStart = "Baslangic"
	ColumnLeaveEnd   = "Bitis"
	ColumnLeaveDays  = "Gun"

	ColumnAdvanceAmount = "Tutar"

	ColumnPurchaseItem     = "Urun"
	ColumnPurchaseQuantity = "Adet"
	ColumnPurchaseCost     = "Tahmini Tutar"
)

// QueueConfig is the fixed column layout of one queue table. Column positions are 1-based.
type QueueConfig struct {
	Name            QueueName `json:"name"`
	Sheet           string    `json:"sheet"`
	Columns         []string  `json:"columns"`
	RequesterColumn int       `json:"requester_column"`
	StatusColumn    int       `json:"status_column"`
	NoteColumn      int       `json:"note_column"`
}

// SubjectColumns returns the 1-based positions of every column except status and note, in order.
func (q QueueConfig) SubjectColumns() []int {
	cols := make([]int, 0, len(q.Columns))
	for i := range q.Columns {
		pos := i + 1
		if pos == q.StatusColumn || pos == q.NoteColumn {
			continue
		}
		cols = append(cols, pos)
	}
	return cols
}

// ColumnIndex returns the 1-based position of the named column or 0.
func (q QueueConfig) ColumnIndex(name string) int {
	for i, col := range q.Columns {
		if strings.EqualFold(strings.TrimSpace(col), strings.TrimSpace(name)) {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether the layout points at existing, distinct columns.
func (q QueueConfig) Valid() bool {
	n := len(q.Columns)
	inRange := func(pos int) bool { return pos >= 1 && pos <= n }
	if q.Sheet == "" || !inRange(q.StatusColumn) || !inRange(q.NoteColumn) || !inRange(q.RequesterColumn) {
		return false
	}
	return q.StatusColumn != q.NoteColumn && q.RequesterColumn != q.StatusColumn && q.RequesterColumn != q.NoteColumn
}

// QueueRegistry resolves queue layouts by name.
type QueueRegistry map[QueueName]QueueConfig

// Lookup returns the layout of the named queue.
func (r QueueRegistry) Lookup(name QueueName) (QueueConfig, bool) {
	cfg, ok := r[QueueName(strings.ToLower(strings.TrimSpace(string(name))))]
	return cfg, ok
}

// Names lists registered queues alphabetically.
func (r QueueRegistry) Names() []QueueName {
	names := make([]QueueName, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// DefaultQueues returns the standard leave, advance and purchase layouts on the given sheets.
func DefaultQueues(leaveSheet, advanceSheet, purchaseSheet string) QueueRegistry {
	return QueueRegistry{
		QueueLeave: {
			Name:  QueueLeave,
			Sheet: leaveSheet,
			Columns: []string{
				ColumnDate, ColumnRequester, ColumnLeaveStart, ColumnLeaveEnd, ColumnLeaveDays,
				ColumnReason, ColumnStatus, ColumnManagerNote,
			},
			RequesterColumn: 2,
			StatusColumn:    7,
			NoteColumn:      8,
		},
		QueueAdvance: {
			Name:  QueueAdvance,
			Sheet: advanceSheet,
			Columns: []string{
				ColumnDate, ColumnRequester, ColumnAdvanceAmount, ColumnReason, ColumnStatus, ColumnManagerNote,
			},
			RequesterColumn: 2,
			StatusColumn:    5,
			NoteColumn:      6,
		},
		QueuePurchase: {
			Name:  QueuePurchase,
			Sheet: purchaseSheet,
			Columns: []string{
				ColumnDate, ColumnRequester, ColumnPurchaseItem, ColumnPurchaseQuantity, ColumnPurchaseCost,
				ColumnReason, ColumnStatus, ColumnManagerNote,
			},
			RequesterColumn: 2,
			StatusColumn:    7,
			NoteColumn:      8,
		},
	}
}
