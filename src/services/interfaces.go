package services

import (
	"errors"
	"io"

	"github.com/username/tourtally/backend/src/models"
)

var (
	// ErrParsingFailed wraps document-level structural failures; nothing is
	// committed when it fires.
	ErrParsingFailed = errors.New("parsing failed")
	// ErrNoRecords means the input was readable but no order could be
	// recognized in it.
	ErrNoRecords = errors.New("no records recognized in input")
)

// UploadResult is the response of one ingestion call.
type UploadResult struct {
	Success     bool                 `json:"success"`
	UploadID    string               `json:"uploadId"`
	RecordCount int                  `json:"recordCount"`
	Headers     []string             `json:"headers,omitempty"`
	Summary     *models.ParseSummary `json:"summary,omitempty"`
	Message     string               `json:"message"`
}

// RecordsResult pairs a record set with its statistics. Statistics is null
// when the set is empty.
type RecordsResult struct {
	Records    []models.SaleRecord `json:"records"`
	Statistics *models.Statistics  `json:"statistics"`
}

// UploadService is the core ingestion and query logic.
type UploadService interface {
	ProcessReportUpload(fileReader io.Reader) (*UploadResult, error)
	ProcessTextUpload(text string) (*UploadResult, error)
	GetRecords(filter models.RecordsFilter) (*RecordsResult, error)
	GetUploads() ([]models.UploadInfo, error)
	DeleteUpload(uploadID string) error
	DeleteAllRecords() error
}
