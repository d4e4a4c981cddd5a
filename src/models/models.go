package models

// Statistics is the aggregate over a record set. A nil *Statistics means the
// set was empty; an empty set never yields a zero-filled object.
type Statistics struct {
	TotalRecords   int     `json:"total_records"`
	TotalPaid      float64 `json:"total_paid"`
	TotalGuide     float64 `json:"total_guide"`
	TotalPlatform  float64 `json:"total_platform"`
	AvgTicketPrice float64 `json:"avg_ticket_price"`
	TotalTickets   int     `json:"total_tickets"`
	UniqueOrders   int     `json:"unique_orders"`
}

// RecordsFilter narrows a records query. Zero values mean "no constraint".
type RecordsFilter struct {
	UploadID string
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive
	TourName string // substring match
	Search   string // substring match over tour, participant and order id
}

// HasFilters reports whether anything beyond the upload id is constrained.
func (f RecordsFilter) HasFilters() bool {
	return f.DateFrom != "" || f.DateTo != "" || f.TourName != "" || f.Search != ""
}

// UploadInfo describes one ingestion batch for the uploads listing.
type UploadInfo struct {
	UploadID    string `json:"upload_id"`
	RecordCount int    `json:"record_count"`
	CreatedAt   string `json:"created_at"`
}
