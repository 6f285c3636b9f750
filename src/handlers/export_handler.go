package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/processors"
	"github.com/username/finassist/backend/src/security/validation"
)

var vatCSVHeader = []string{
	"Data", "Fatura", "Cliente", "Produto", "Taxa IVA", "Base Tributável", "Valor IVA", "Total", "Pagamento",
}

// HandleExportVATCSV streams the month's sales as a semicolon separated CSV.
// Text cells are escaped against formula injection.
func (h *ReportHandler) HandleExportVATCSV(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	sales, err := h.reportService.Sales(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "sales", month, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"iva-%s.csv\"", month))

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	write := func(record []string) bool {
		if err := cw.Write(record); err != nil {
			logger.FromContext(r.Context()).Error("Error writing VAT CSV", "month", month, "error", err)
			return false
		}
		return true
	}

	if !write(vatCSVHeader) {
		return
	}
	for _, s := range sales {
		record := []string{
			s.Date.String(),
			validation.SanitizeForFormulaInjection(s.InvoiceNumber),
			validation.SanitizeForFormulaInjection(s.Customer),
			validation.SanitizeForFormulaInjection(s.Product),
			processors.RateLabel(s.VATRate),
			s.NetAmount.StringFixed(2),
			s.VATAmount.StringFixed(2),
			s.GrossAmount.StringFixed(2),
			validation.SanitizeForFormulaInjection(s.PaymentMethod),
		}
		if !write(record) {
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.FromContext(r.Context()).Error("Error flushing VAT CSV", "month", month, "error", err)
	}
}
