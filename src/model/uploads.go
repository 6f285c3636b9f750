package model

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/username/finassist/backend/src/models"
)

// InsertUploadedFile records an upload and sets f.ID and f.UploadedAt.
func InsertUploadedFile(ctx context.Context, db DBTX, f *models.UploadedFile) error {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO uploaded_files (filename, file_type, month, rows_read, duration_ms, raw_content, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, f.Filename, f.FileType, f.Month, f.RowsRead, f.DurationMs, f.RawContent, f.UploadedAt)
	if err != nil {
		return err
	}
	f.ID, err = res.LastInsertId()
	return err
}

// UpdateUploadDuration stores the total processing time once it is known.
func UpdateUploadDuration(ctx context.Context, db DBTX, id int64, durationMs int64) error {
	_, err := db.ExecContext(ctx, `UPDATE uploaded_files SET duration_ms = ? WHERE id = ?`, durationMs, id)
	return err
}

// GetLatestMonth returns the month of the most recently uploaded file that
// had one, or "" when nothing has been uploaded.
func GetLatestMonth(ctx context.Context, db DBTX) (string, error) {
	query := `SELECT month FROM uploaded_files WHERE month != '' ORDER BY uploaded_at DESC, id DESC LIMIT 1`
	var month string
	err := db.QueryRowContext(ctx, query).Scan(&month)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return month, err
}

// DeleteMonthData removes everything stored for month and returns the number
// of upload records deleted.
func DeleteMonthData(ctx context.Context, db DBTX, month string) (int64, error) {
	if _, err := db.ExecContext(ctx, `DELETE FROM daily_reconciliations WHERE month = ?`, month); err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM sales WHERE month = ?`, month); err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM bank_transactions WHERE month = ?`, month); err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM uploaded_files WHERE month = ?`, month)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
