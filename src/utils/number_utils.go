package utils

import (
	"strconv"
	"strings"
)

// ParseDecimal converts a raw cell value into a float, accepting both "." and
// ","  as the decimal separator and ignoring grouping spaces ("1 234,50").
// Returns nil for empty or unparseable input; it never fails the caller.
func ParseDecimal(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseIntCell converts a raw cell value into an integer count. Values carrying
// a fractional part ("2.0") are truncated. Returns nil when unparseable.
func ParseIntCell(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	f := ParseDecimal(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// StringPtr returns nil for an empty (or whitespace-only) value, a pointer to
// the trimmed value otherwise.
func StringPtr(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }
