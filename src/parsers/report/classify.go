package report

import (
	"strings"
	"unicode/utf8"
)

// rowKind is the shape a grid row was classified as. Classification is purely
// positional: the reports carry no schema, so rows are recognized by their
// cell layout and a handful of fixed Russian marker phrases.
type rowKind int

const (
	rowBlank rowKind = iota
	rowFooterTickets    // "Всего реализовано билетов: <n> на сумму <amount> RUB"
	rowFooterCommission // "Суммарная комиссия ... за период: <amount> RUB"
	rowFooterTerminal   // "Итого к перечислению" — document trailer, stop here
	rowTourCommission   // "Комиссия за все заказы данной экскурсии ..."
	rowNewTour          // bare tour title, starts a new tour section
	rowHeader           // repeated table header
	rowOrder            // order line, first cell is a date
	rowContinuation     // extra ticket category of the preceding order
	rowUnrecognized
)

// Header tokens that can never be a ticket category or a tour title.
var reservedTokens = map[string]bool{
	"гиду":     true,
	"спутнику": true,
	"время":    true,
}

// cellAt tolerates ragged rows.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// classifyRow decides which of the known row shapes a grid row is. The checks
// are priority ordered; the tour-title rule and the header rule overlap for
// pathological titles, and the earlier rule wins, matching the source format's
// observed behavior.
func classifyRow(row []string) rowKind {
	if isBlankRow(row) {
		return rowBlank
	}

	first := strings.ToLower(strings.TrimSpace(cellAt(row, 0)))
	second := strings.ToLower(strings.TrimSpace(cellAt(row, 1)))
	third := strings.ToLower(strings.TrimSpace(cellAt(row, 2)))

	switch {
	case strings.Contains(first, "всего реализовано"):
		return rowFooterTickets
	case strings.Contains(first, "суммарная комиссия"):
		return rowFooterCommission
	case strings.Contains(first, "итого к перечислению"):
		return rowFooterTerminal
	case strings.Contains(first, "комиссия за все заказы данной экскурсии"):
		return rowTourCommission
	}

	if first != "" && !IsDateLike(first) && utf8.RuneCountInString(first) > 3 &&
		!reservedTokens[second] &&
		!strings.Contains(second, "id") && !strings.Contains(second, "дата") {
		return rowNewTour
	}

	if (first == "дата" && second == "время") ||
		(second == "гиду" && third == "спутнику") ||
		second == "время" ||
		strings.Contains(first, "id заказа") {
		return rowHeader
	}

	if IsDateLike(first) {
		return rowOrder
	}
	if first == "" {
		return rowContinuation
	}
	return rowUnrecognized
}
