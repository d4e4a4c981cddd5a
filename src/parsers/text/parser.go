package text

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/username/tourtally/backend/src/models"
)

// TextParser decodes free-form pasted order text: a sequence of order blocks
// where every field is recognized by line shape, not by position alone.
type TextParser struct{}

func NewParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) Parse(file io.Reader, uploadID string) (*models.ParseResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read text input: %w", err)
	}
	return p.ParseText(string(data), uploadID)
}

// ParseText segments the blob into per-order line groups and decodes each one.
// A malformed group drops only itself; the batch carries on with the rest.
func (p *TextParser) ParseText(text, uploadID string) (*models.ParseResult, error) {
	result := &models.ParseResult{}

	chunks := segmentOrders(text)
	log.Printf("Text input segmented into %d order chunks", len(chunks))

	for _, chunk := range chunks {
		order, ok := parseOrder(chunk)
		if !ok {
			log.Printf("Skipping malformed order chunk (%d lines)", len(chunk))
			continue
		}
		result.Records = append(result.Records, orderToRecords(order, uploadID)...)
	}

	result.Summary = summarize(result.Records)
	log.Printf("Text parsed: %d records, %d tours", len(result.Records), result.Summary.Tours)

	return result, nil
}

// segmentOrders splits the text into per-order line groups. A line that is a
// bare order id opens a new group, unless nothing has been accumulated yet —
// the very first id line must not close an empty group.
func segmentOrders(text string) [][]string {
	var orders [][]string
	var current []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if orderIDRe.MatchString(line) && len(current) > 0 {
			orders = append(orders, current)
			current = []string{line}
		} else {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		orders = append(orders, current)
	}

	return orders
}

// summarize computes run totals from the decoded records; unlike the report
// path, pasted text has no footer of its own to trust.
func summarize(records []models.SaleRecord) models.ParseSummary {
	var s models.ParseSummary
	tours := make(map[string]struct{})
	for _, r := range records {
		if r.Quantity != nil {
			s.TotalTickets += *r.Quantity
		}
		if r.PaidAmount != nil {
			s.TotalAmount += *r.PaidAmount
		}
		tours[r.TourName] = struct{}{}
	}
	s.Tours = len(tours)
	return s
}
