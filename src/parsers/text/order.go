package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/username/tourtally/backend/src/models"
	"github.com/username/tourtally/backend/src/utils"
)

var (
	orderIDRe      = regexp.MustCompile(`^\d{5,8}$`)
	phoneRe        = regexp.MustCompile(`^\+?\d{10,12}$`)
	emailTailRe    = regexp.MustCompile(`(?i)\.[a-z]{2,}$`)
	rubleAmountRe  = regexp.MustCompile(`([\d.,]+)\s*₽`)
	ticketHeaderRe = regexp.MustCompile(`(?i)^\d+\s+билет`)
	ticketLineRe   = regexp.MustCompile(`^(.+?)\s+x(\d+)$`)
	dateTimeRe     = regexp.MustCompile(`(\d{1,2})\s+(\S+)\s+(\d{4})\s+в\s+(\d{1,2}):(\d{2})`)
)

// Abbreviated and full Russian month names, as they appear in order datelines.
var monthNumbers = map[string]string{
	"янв": "01", "января": "01",
	"фев": "02", "февраля": "02",
	"мар": "03", "марта": "03",
	"апр": "04", "апреля": "04",
	"май": "05", "мая": "05",
	"июн": "06", "июня": "06",
	"июл": "07", "июля": "07",
	"авг": "08", "августа": "08",
	"сен": "09", "сентября": "09",
	"окт": "10", "октября": "10",
	"ноя": "11", "ноября": "11",
	"дек": "12", "декабря": "12",
}

type ticketLine struct {
	category string
	quantity int
}

// parsedOrder is one decoded order block before materialization into records.
type parsedOrder struct {
	orderID         string
	tourName        string
	date            string
	time            string
	status          string
	prepayment      float64
	paymentOnSpot   float64
	discount        string
	participantName string
	phone           string
	email           string
	tickets         []ticketLine
}

// parseOrder decodes one order's line group. The first four lines are fixed
// (id, tour, dateline, status); everything else is found by scanning for line
// shapes. Groups too short to be an order, or without a valid id line, are
// rejected as a whole.
func parseOrder(lines []string) (parsedOrder, bool) {
	if len(lines) < 5 {
		return parsedOrder{}, false
	}
	if !orderIDRe.MatchString(lines[0]) {
		return parsedOrder{}, false
	}

	order := parsedOrder{
		orderID:  lines[0],
		tourName: lines[1],
		status:   lines[3],
		discount: "—",
	}
	order.date, order.time = parseOrderDateTime(lines[2])

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "Предоплата:"):
			order.prepayment = parseRubleAmount(line)
		case strings.HasPrefix(line, "Оплата на месте:"):
			order.paymentOnSpot = parseRubleAmount(line)
		case strings.HasPrefix(line, "Учтена скидка:"):
			order.discount = strings.TrimSpace(strings.TrimPrefix(line, "Учтена скидка:"))
		}
	}

	// Contact scan: a bare phone-shaped line is the phone, and the line right
	// before it — when it is neither a labeled field nor an amount — is the
	// participant name. Last match wins.
	for i, line := range lines {
		compact := strings.ReplaceAll(line, " ", "")
		if phoneRe.MatchString(compact) {
			order.phone = line
			if i > 0 && !strings.Contains(lines[i-1], ":") && !strings.Contains(lines[i-1], "₽") {
				order.participantName = lines[i-1]
			}
		}
		if strings.Contains(line, "@") && emailTailRe.MatchString(line) {
			order.email = line
		}
	}

	// Ticket scan: everything after the first "<n> билет..." header that looks
	// like "<category> x<count>" is a ticket line. Later headers do not reset
	// the scan.
	ticketSection := false
	for _, line := range lines {
		if ticketHeaderRe.MatchString(line) {
			ticketSection = true
			continue
		}
		if !ticketSection {
			continue
		}
		if m := ticketLineRe.FindStringSubmatch(line); m != nil {
			qty, _ := strconv.Atoi(m[2])
			order.tickets = append(order.tickets, ticketLine{
				category: strings.TrimSpace(m[1]),
				quantity: qty,
			})
		}
	}

	return order, true
}

// parseOrderDateTime parses a Russian-locale dateline such as
// "04 янв 2026 в 12:00". An unrecognized line yields empty strings; an order
// with an odd dateline is still worth keeping.
func parseOrderDateTime(line string) (date, clock string) {
	m := dateTimeRe.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	month, ok := monthNumbers[strings.ToLower(m[2])]
	if !ok {
		month = "01"
	}
	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[4])
	return fmt.Sprintf("%s-%s-%02d", m[3], month, day), fmt.Sprintf("%02d:%s", hour, m[5])
}

// parseRubleAmount extracts the number immediately preceding a ruble sign,
// decimal-comma tolerant. A line without one counts as zero.
func parseRubleAmount(line string) float64 {
	m := rubleAmountRe.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// orderToRecords materializes one order into sale records. The pasted format
// states only order-level money, so the paid amount is split evenly per ticket
// across all categories — a deliberate approximation, not a true per-category
// price.
func orderToRecords(order parsedOrder, uploadID string) []models.SaleRecord {
	totalAmount := order.prepayment + order.paymentOnSpot

	comment := order.email
	if order.phone != "" {
		comment = fmt.Sprintf("%s / %s", order.phone, order.email)
	}

	base := models.SaleRecord{
		UploadID:        uploadID,
		TourName:        order.tourName,
		Date:            utils.StringPtr(order.date),
		Time:            utils.StringPtr(order.time),
		OrderID:         &order.orderID,
		ParticipantName: utils.StringPtr(order.participantName),
		Comment:         utils.StringPtr(comment),
	}

	if len(order.tickets) == 0 {
		rec := base
		rec.TicketPrice = utils.FloatPtr(totalAmount)
		rec.Quantity = utils.IntPtr(1)
		rec.PaidAmount = utils.FloatPtr(totalAmount)
		return []models.SaleRecord{rec}
	}

	ticketCount := 0
	for _, t := range order.tickets {
		ticketCount += t.quantity
	}
	pricePerTicket := 0.0
	if ticketCount > 0 {
		pricePerTicket = totalAmount / float64(ticketCount)
	}

	records := make([]models.SaleRecord, 0, len(order.tickets))
	for _, t := range order.tickets {
		rec := base
		category := t.category
		quantity := t.quantity
		rec.TicketCategory = &category
		rec.TicketPrice = utils.FloatPtr(pricePerTicket)
		rec.Quantity = &quantity
		rec.PaidAmount = utils.FloatPtr(pricePerTicket * float64(quantity))
		records = append(records, rec)
	}
	return records
}
