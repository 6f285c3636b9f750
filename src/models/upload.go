package models

import "time"

// File types accepted by the upload endpoint.
const (
	FileTypeSales = "sales"
	FileTypeBank  = "bank"
)

// UploadedFile records one processed upload.
type UploadedFile struct {
	ID         int64     `json:"id,omitempty"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	Month      string    `json:"month"`
	RowsRead   int       `json:"rows_read"`
	DurationMs int64     `json:"duration_ms"`
	RawContent string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadMetrics is reported back to the client for each file of an upload.
type UploadMetrics struct {
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	Month      string `json:"month"`
	RowsRead   int    `json:"rows_read"`
	DurationMs int64  `json:"duration_ms"`
}
