package documents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeSheet_XLSXKeepsNumbersNumeric(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Data", "Fatura", "Quantidade", "Pagamento"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{45901, "F001", 2.5, "Cartão"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"02/09/2025", "F002", "3", nil}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := DecodeSheet(buf.Bytes(), KindXLSX)
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Fatura", "Quantidade", "Pagamento"}, got.Header)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, float64(45901), got.Rows[0][0])
	assert.Equal(t, "F001", got.Rows[0][1])
	assert.Equal(t, 2.5, got.Rows[0][2])
	assert.Equal(t, "Cartão", got.Rows[0][3])
	assert.Equal(t, "02/09/2025", got.Rows[1][0])
	assert.Equal(t, "3", got.Rows[1][2], "text cells stay text even when numeric-looking")
}

func TestDecodeSheet_SemicolonCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFData;Fatura;Total\n01/09/2025;F001;114,00\n;;\n")

	got, err := DecodeSheet(data, KindCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Fatura", "Total"}, got.Header)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []any{"01/09/2025", "F001", "114,00"}, got.Rows[0])
	assert.Equal(t, []any{nil, nil, nil}, got.Rows[1])
}

func TestDecodeSheet_Windows1252CSV(t *testing.T) {
	// "Descrição" encoded as Windows-1252
	data := []byte("Data,Descri\xe7\xe3o\n01/09/2025,P\xe3o\n")

	got, err := DecodeSheet(data, KindCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Descrição"}, got.Header)
	assert.Equal(t, "Pão", got.Rows[0][1])
}

func TestDecodeSheet_RejectsPDF(t *testing.T) {
	_, err := DecodeSheet([]byte("%PDF-1.4"), KindPDF)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))
}

func TestDecodeStatementText(t *testing.T) {
	got, err := DecodeStatementText([]byte("01/09/2025 Fecho TPA 10,00 20,00\r\n"), KindText)
	require.NoError(t, err)
	assert.Equal(t, "01/09/2025 Fecho TPA 10,00 20,00\n", got)

	_, err = DecodeStatementText([]byte("a\x00b"), KindText)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))

	_, err = DecodeStatementText([]byte("x"), KindXLSX)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))
}

func TestExtractPDFText_InvalidInput(t *testing.T) {
	_, err := ExtractPDFText([]byte("this is not a pdf"))
	assert.Error(t, err)
}
