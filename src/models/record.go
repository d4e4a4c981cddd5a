package models

// SaleRecord is one ticket-category line item of one order. Optional fields are
// pointers so that "absent in the source document" survives the round trip
// through SQLite NULLs and JSON omitempty.
type SaleRecord struct {
	ID                int64    `json:"id,omitempty"` // Database primary key
	UploadID          string   `json:"upload_id"`
	TourName          string   `json:"tour_name"`
	Date              *string  `json:"date,omitempty"` // YYYY-MM-DD
	Time              *string  `json:"time,omitempty"` // HH:MM
	OrderID           *string  `json:"order_id,omitempty"`
	ParticipantName   *string  `json:"participant_name,omitempty"`
	TicketCategory    *string  `json:"ticket_category,omitempty"`
	TicketPrice       *float64 `json:"ticket_price,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	PaidAmount        *float64 `json:"paid_amount,omitempty"`
	CommissionPercent *float64 `json:"commission_percent,omitempty"`
	GuideAmount       *float64 `json:"guide_amount,omitempty"`
	PlatformAmount    *float64 `json:"platform_amount,omitempty"`
	Comment           *string  `json:"comment,omitempty"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// ParseSummary holds the run totals of one ingestion: the document's own footer
// figures on the report path, or figures computed from the decoded records on
// the text path. It is returned with the upload response and never persisted.
type ParseSummary struct {
	TotalTickets    int     `json:"totalTickets"`
	TotalAmount     float64 `json:"totalAmount"`
	TotalCommission float64 `json:"totalCommission,omitempty"`
	Tours           int     `json:"tours"`
}

// ParseResult is what either parser hands back to the upload service.
type ParseResult struct {
	Records []SaleRecord
	Summary ParseSummary
	// Headers is the report's own column header row, surfaced for table display.
	Headers []string
	// TourCommissions maps tour name to the per-tour commission footer amount.
	TourCommissions map[string]float64
}
