package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/doeshing/prompt-enhancer/internal/domain"
)

// ====================================================================================
// Formatting Helpers
// ====================================================================================

// Truncate shortens s to max runes on a single line.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// WriteJSON pretty-prints v.
func WriteJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatSize renders a byte count the way model listings show it.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ====================================================================================
// History Helpers
// ====================================================================================

// ParseHistoryID parses a record id argument.
func ParseHistoryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid history id %q", raw)
	}
	return id, nil
}

// FormatHistoryLine renders one list row.
func FormatHistoryLine(record domain.HistoryRecord) string {
	return fmt.Sprintf("%d  %s  %s",
		record.ID,
		record.Date.Local().Format("2006-01-02 15:04"),
		Truncate(record.Input, 60))
}

// LimitRecords returns at most limit records. A non-positive limit keeps all.
func LimitRecords(records []domain.HistoryRecord, limit int) []domain.HistoryRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}
	return records[:limit]
}
