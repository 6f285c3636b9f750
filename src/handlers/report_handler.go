package handlers

import (
	"net/http"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/security/validation"
	"github.com/username/finassist/backend/src/services"
	"github.com/username/finassist/backend/src/utils"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) serverError(w http.ResponseWriter, r *http.Request, what, month string, err error) {
	logger.FromContext(r.Context()).Error("Error retrieving "+what, "month", month, "error", err)
	utils.SendJSONError(w, "Error retrieving "+what, http.StatusInternalServerError)
}

func (h *ReportHandler) HandleGetAnomalies(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	report, err := h.reportService.Anomalies(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "anomalies", month, err)
		return
	}
	writeJSONWithETag(w, r, report)
}

func (h *ReportHandler) HandleGetKPISummary(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	summary, err := h.reportService.KPISummary(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "KPI summary", month, err)
		return
	}
	writeJSONWithETag(w, r, summary)
}

func (h *ReportHandler) HandleGetDailyRevenue(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	series, err := h.reportService.DailyRevenue(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "daily revenue", month, err)
		return
	}
	writeJSONWithETag(w, r, series)
}

func (h *ReportHandler) HandleGetTopCustomers(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	limit, err := validation.ValidateLimit(r.URL.Query().Get("limit"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	customers, err := h.reportService.TopCustomers(r.Context(), month, limit)
	if err != nil {
		h.serverError(w, r, "top customers", month, err)
		return
	}
	writeJSONWithETag(w, r, map[string]any{"month": month, "customers": customers})
}

func (h *ReportHandler) HandleGetTopProducts(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	limit, err := validation.ValidateLimit(r.URL.Query().Get("limit"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	products, err := h.reportService.TopProducts(r.Context(), month, limit)
	if err != nil {
		h.serverError(w, r, "top products", month, err)
		return
	}
	writeJSONWithETag(w, r, map[string]any{"month": month, "products": products})
}

func (h *ReportHandler) HandleGetVATReport(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	report, err := h.reportService.VATReport(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "VAT report", month, err)
		return
	}
	writeJSONWithETag(w, r, report)
}

func (h *ReportHandler) HandleGetSales(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	sales, err := h.reportService.Sales(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "sales", month, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"month": month, "sales": sales})
}

func (h *ReportHandler) HandleGetBankTransactions(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	txs, err := h.reportService.BankTransactions(r.Context(), month)
	if err != nil {
		h.serverError(w, r, "bank transactions", month, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"month": month, "transactions": txs})
}

func (h *ReportHandler) HandleGetLatestMonth(w http.ResponseWriter, r *http.Request) {
	month, err := h.reportService.LatestMonth(r.Context())
	if err != nil {
		h.serverError(w, r, "latest month", "", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"month": month})
}

func (h *ReportHandler) HandleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.reportService.DeleteMonth(r.Context(), month)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error deleting month data", "month", month, "error", err)
		utils.SendJSONError(w, "Error deleting month data", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "month": month, "uploads_deleted": deleted})
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
