package domain

import "time"

// HistoryRecord is one persisted prompt transformation. Records are never
// mutated after creation.
type HistoryRecord struct {
	ID     int64     `json:"id"`
	Input  string    `json:"input"`
	Output string    `json:"output"`
	Date   time.Time `json:"date"`
}
