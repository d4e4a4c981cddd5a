package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var literalDateRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// Spreadsheet serial day counts land in this window for the years the reports
// cover; anything outside it is treated as a plain number, not a date.
const (
	serialDateMin = 40000
	serialDateMax = 60000
)

// Day zero of the spreadsheet serial-date encoding.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// IsDateLike reports whether a cell value is one of the two date encodings the
// reports use: literal DD.MM.YYYY text or a serial day count. The row
// classifier relies on this to tell order rows from everything else.
func IsDateLike(raw string) bool {
	s := strings.TrimSpace(raw)
	if literalDateRe.MatchString(s) {
		return true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return n >= serialDateMin && n < serialDateMax
}

// FormatCellDate normalizes a date cell to YYYY-MM-DD. Both encodings are
// accepted; any other value is returned unchanged rather than failing the row.
func FormatCellDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if literalDateRe.MatchString(s) {
		parts := strings.Split(s, ".")
		return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && n >= serialDateMin && n < serialDateMax {
		return serialEpoch.AddDate(0, 0, int(n)).Format("2006-01-02")
	}
	return s
}
