package report

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/tourtally/backend/src/models"
	"github.com/username/tourtally/backend/src/utils"
)

// UnspecifiedTour is used when order rows appear before any tour-title row.
const UnspecifiedTour = "Не указано"

var (
	ticketTotalsRe = regexp.MustCompile(`(\d+)\s+на\s+сумму\s+([\d.]+)`)
	commissionRe   = regexp.MustCompile(`([\d.]+)\s*rub`)
)

// ReportParser decodes the reconciliation report: a spreadsheet whose row
// meaning depends on position and the surrounding rows rather than on a fixed
// schema.
type ReportParser struct{}

func NewParser() *ReportParser {
	return &ReportParser{}
}

// Parse decodes the spreadsheet container into a cell grid and runs the grid
// decoder over the first sheet.
func (p *ReportParser) Parse(file io.Reader, uploadID string) (*models.ParseResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet contains no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return p.ParseGrid(rows, uploadID)
}

// ParseGrid walks the grid row by row, carrying the current tour title and the
// last emitted record forward, because order rows do not restate either. Rows
// that fit no known shape are skipped: real reports contain decorative and
// legacy rows, and tolerating them beats failing the whole upload.
func (p *ReportParser) ParseGrid(rows [][]string, uploadID string) (*models.ParseResult, error) {
	if len(rows) < 5 {
		return nil, fmt.Errorf("report contains insufficient data: %d rows", len(rows))
	}

	result := &models.ParseResult{
		TourCommissions: make(map[string]float64),
	}
	currentTour := UnspecifiedTour
	var last *models.SaleRecord

scan:
	for _, row := range rows {
		switch classifyRow(row) {
		case rowBlank, rowHeader, rowUnrecognized:
			// noise

		case rowFooterTickets:
			first := strings.ToLower(strings.TrimSpace(cellAt(row, 0)))
			if m := ticketTotalsRe.FindStringSubmatch(first); m != nil {
				result.Summary.TotalTickets, _ = strconv.Atoi(m[1])
				result.Summary.TotalAmount, _ = strconv.ParseFloat(m[2], 64)
			}

		case rowFooterCommission:
			first := strings.ToLower(strings.TrimSpace(cellAt(row, 0)))
			if m := commissionRe.FindStringSubmatch(first); m != nil {
				result.Summary.TotalCommission, _ = strconv.ParseFloat(m[1], 64)
			}

		case rowFooterTerminal:
			// Document trailer; everything below is remittance boilerplate.
			break scan

		case rowTourCommission:
			if amount := utils.ParseDecimal(cellAt(row, 3)); amount != nil && *amount != 0 && last != nil {
				result.TourCommissions[last.TourName] = *amount
				log.Printf("Tour commission footer: %q = %.2f", last.TourName, *amount)
			}

		case rowNewTour:
			currentTour = strings.TrimSpace(cellAt(row, 0))

		case rowOrder:
			rec := p.decodeOrderRow(row, uploadID, currentTour)
			if rec.TicketCategory != nil || rec.PaidAmount != nil {
				result.Records = append(result.Records, rec)
				last = &result.Records[len(result.Records)-1]
			}

		case rowContinuation:
			rec, ok := p.decodeContinuationRow(row, last)
			if ok {
				result.Records = append(result.Records, rec)
				last = &result.Records[len(result.Records)-1]
			}
		}
	}

	result.Headers = findHeaderRow(rows)
	result.Summary.Tours = countTours(result.Records)
	log.Printf("Report parsed: %d records, %d tours", len(result.Records), result.Summary.Tours)

	return result, nil
}

// decodeOrderRow reads the fixed positional layout of an order line:
// date, time, order id, participant, category, price, quantity, paid,
// (unused), commission %, guide payout, platform payout, comment.
func (p *ReportParser) decodeOrderRow(row []string, uploadID, currentTour string) models.SaleRecord {
	rec := models.SaleRecord{
		UploadID:        uploadID,
		TourName:        currentTour,
		Date:            utils.StringPtr(FormatCellDate(cellAt(row, 0))),
		Time:            utils.StringPtr(cellAt(row, 1)),
		OrderID:         utils.StringPtr(cellAt(row, 2)),
		ParticipantName: utils.StringPtr(cellAt(row, 3)),
		TicketCategory:  utils.StringPtr(cellAt(row, 4)),
		TicketPrice:     utils.ParseDecimal(cellAt(row, 5)),
		Quantity:        utils.ParseIntCell(cellAt(row, 6)),
		PaidAmount:      utils.ParseDecimal(cellAt(row, 7)),
		GuideAmount:     utils.ParseDecimal(cellAt(row, 10)),
		PlatformAmount:  utils.ParseDecimal(cellAt(row, 11)),
		Comment:         utils.StringPtr(cellAt(row, 12)),
	}
	// A zero commission is recorded as absent, matching the report's habit of
	// leaving the column blank for commission-free orders.
	if cp := utils.ParseDecimal(cellAt(row, 9)); cp != nil && *cp != 0 {
		rec.CommissionPercent = cp
	}
	return rec
}

// decodeContinuationRow reads the shifted layout of an extra ticket line
// (category, price, quantity) and inherits everything else from the
// preceding order. Paid amounts are not restated per extra line, so they
// stay unset rather than being guessed.
func (p *ReportParser) decodeContinuationRow(row []string, last *models.SaleRecord) (models.SaleRecord, bool) {
	category := strings.TrimSpace(cellAt(row, 1))
	if category == "" || reservedTokens[strings.ToLower(category)] {
		return models.SaleRecord{}, false
	}
	if last == nil {
		return models.SaleRecord{}, false
	}

	return models.SaleRecord{
		UploadID:          last.UploadID,
		TourName:          last.TourName,
		Date:              last.Date,
		Time:              last.Time,
		OrderID:           last.OrderID,
		ParticipantName:   last.ParticipantName,
		TicketCategory:    &category,
		TicketPrice:       utils.ParseDecimal(cellAt(row, 2)),
		Quantity:          utils.ParseIntCell(cellAt(row, 3)),
		CommissionPercent: last.CommissionPercent,
	}, true
}

// findHeaderRow returns the report's own column header row, if any.
func findHeaderRow(rows [][]string) []string {
	for _, row := range rows {
		first := strings.ToLower(strings.TrimSpace(cellAt(row, 0)))
		second := strings.ToLower(strings.TrimSpace(cellAt(row, 1)))
		if first == "дата" && second == "время" {
			headers := make([]string, len(row))
			for i, cell := range row {
				headers[i] = strings.TrimSpace(cell)
			}
			return headers
		}
	}
	return nil
}

func countTours(records []models.SaleRecord) int {
	tours := make(map[string]struct{})
	for _, r := range records {
		tours[r.TourName] = struct{}{}
	}
	return len(tours)
}
