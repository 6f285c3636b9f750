// backend/src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/parsers/documents"
)

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
// Browsers are inconsistent here, so this only rejects types that are clearly wrong.
var AllowedClientContentTypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/pdf":          true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !AllowedClientContentTypes[mediaType] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed", ErrValidationFailed, contentType)
	}
	return nil
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// DetectDocumentKind inspects the content signature (magic bytes) of an
// upload. XLSX files are zip archives; anything else must be text without
// null bytes, and is CSV when the name says so.
func DetectDocumentKind(data []byte, filename string) (documents.Kind, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}

	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}

	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return documents.KindPDF, nil
	case bytes.HasPrefix(head, zipMagic):
		if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && ext != ".xlsx" {
			logger.L.Warn("Zip upload with unexpected extension", "filename", filename)
			return "", fmt.Errorf("%w: archive '%s' is not an xlsx workbook", ErrValidationFailed, filename)
		}
		return documents.KindXLSX, nil
	}

	// Latin-1 exports are fine, null bytes are not
	if bytes.IndexByte(head, 0) != -1 {
		detected := http.DetectContentType(head)
		logger.L.Warn("File rejected: binary content detected", "detectedContentType", detected)
		return "", fmt.Errorf("%w: file appears to be binary (%s), not a spreadsheet, pdf or text", ErrValidationFailed, detected)
	}

	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return documents.KindCSV, nil
	}
	return documents.KindText, nil
}
