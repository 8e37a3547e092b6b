package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tradepilot/tradepilot/internal/service"
)

// Normalize converts database-native scalar types into transport-safe
// primitives, in place, keyed by the driver-reported column types. Only
// genuinely numeric columns are parsed, so numeric-looking text in a VARCHAR
// column (a ticker like "0050") stays text. Row order and the column set of
// each row are untouched. Empty input passes through unchanged.
func Normalize(columns []service.Column, rows []map[string]any) []map[string]any {
	if len(rows) == 0 {
		return rows
	}
	types := make(map[string]string, len(columns))
	for _, c := range columns {
		types[c.Name] = c.DatabaseType
	}
	for _, row := range rows {
		for col, val := range row {
			row[col] = normalizeValue(val, types[col])
		}
	}
	return rows
}

// normalizeValue converts one scalar. The MySQL text protocol delivers most
// non-NULL values as raw bytes, so numeric column types become numbers and
// every other byte value becomes a string. Instants become their canonical
// text encoding and durations a zero-padded HH:MM:SS.
func normalizeValue(v any, dbType string) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		s := string(t)
		switch strings.TrimPrefix(dbType, "UNSIGNED ") {
		case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "YEAR":
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
		case "DECIMAL", "FLOAT", "DOUBLE":
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
		return s
	case time.Time:
		return formatInstant(t, dbType)
	case time.Duration:
		return FormatDuration(t)
	default:
		return v
	}
}

// formatInstant renders DATE columns as year-month-day and everything else as
// RFC 3339, so a DATETIME that happens to fall on midnight keeps its time of
// day. Reproducible byte-for-byte for the same instant.
func formatInstant(t time.Time, dbType string) string {
	if dbType == "DATE" {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// FormatDuration truncates to whole seconds and renders HH:MM:SS. Hours have
// no upper bound; minutes and seconds stay within 0-59.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, hours, minutes, seconds)
}
