package validation

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/username/tourtally/backend/src/logger"
)

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/zip":          true,
	"application/octet-stream": true, // Fallback, but be more cautious
}

// xlsx files are zip containers; the signature is the zip local-file header.
var zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	normalized := strings.ToLower(strings.Split(contentType, ";")[0])
	if allowed, exists := AllowedClientContentTypes[normalized]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for spreadsheet upload", contentType)
	}
	return nil
}

// ValidateSpreadsheetMagicBytes checks the actual file content signature.
// xlsx is a zip container, so anything that does not start with the zip
// signature cannot be a valid upload no matter what the client declared.
func ValidateSpreadsheetMagicBytes(file io.ReadSeeker) error {
	if file == nil {
		return fmt.Errorf("file is nil")
	}

	buffer := make([]byte, len(zipMagic))
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read file for content checking: %w", err)
	}

	// Reset the read pointer so the actual parser can read the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n < len(zipMagic) || !bytes.Equal(buffer, zipMagic) {
		logger.L.Warn("Uploaded file failed magic-byte check")
		return fmt.Errorf("file content is not a valid spreadsheet container")
	}
	return nil
}
