package documents

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText returns the text of a PDF statement, one visual row per line.
// Pages whose rows can't be read fall back to the document's plain text.
func ExtractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	var lines []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("no readable text in pdf; it may be a scanned image")
	}
	return string(b), nil
}

// DecodeStatementText returns the text of a bank statement upload.
func DecodeStatementText(data []byte, kind Kind) (string, error) {
	switch kind {
	case KindPDF:
		return ExtractPDFText(data)
	case KindText, KindCSV:
		if bytes.IndexByte(data, 0) >= 0 {
			return "", fmt.Errorf("%w: binary content in text statement", ErrUnsupportedKind)
		}
		return decodeText(data), nil
	}
	return "", fmt.Errorf("%w: %s cannot hold a bank statement", ErrUnsupportedKind, kind)
}

func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if s, err := charmapDecodeIfNeeded(data); err == nil {
		return strings.ReplaceAll(s, "\r\n", "\n")
	}
	return string(data)
}
