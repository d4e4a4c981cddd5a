package parsers

import (
	"io"

	"github.com/username/tourtally/backend/src/models"
)

// Parser turns one uploaded document into sale records plus a run summary.
// Implementations must absorb per-row and per-chunk problems themselves; only
// document-level structural failure is returned as an error.
type Parser interface {
	Parse(file io.Reader, uploadID string) (*models.ParseResult, error)
}
