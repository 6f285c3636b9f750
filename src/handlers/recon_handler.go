package handlers

import (
	"net/http"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/services"
	"github.com/username/finassist/backend/src/utils"
)

type ReconHandler struct {
	reconService  services.ReconciliationService
	reportService services.ReportService
}

func NewReconHandler(reconService services.ReconciliationService, reportService services.ReportService) *ReconHandler {
	return &ReconHandler{reconService: reconService, reportService: reportService}
}

func (h *ReconHandler) HandleGetCardReconciliation(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	report, err := h.reportService.CardReconciliation(r.Context(), month)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error retrieving card reconciliation", "month", month, "error", err)
		utils.SendJSONError(w, "Error retrieving card reconciliation", http.StatusInternalServerError)
		return
	}
	writeJSONWithETag(w, r, report)
}

// HandleRecompute re-runs the month's reconciliation. Days that fail are
// logged and left as they were; the response is the stored result.
func (h *ReconHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	days, err := h.reconService.ComputeReconciliation(r.Context(), month)
	if err != nil {
		if days == nil {
			ctxLogger.Error("Reconciliation recompute failed", "month", month, "error", err)
			utils.SendJSONError(w, "Error recomputing reconciliation", http.StatusInternalServerError)
			return
		}
		ctxLogger.Warn("Reconciliation recompute finished with errors", "month", month, "error", err)
	}
	h.reportService.InvalidateMonth(month)

	report, err := h.reportService.CardReconciliation(r.Context(), month)
	if err != nil {
		ctxLogger.Error("Error retrieving card reconciliation", "month", month, "error", err)
		utils.SendJSONError(w, "Error retrieving card reconciliation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (h *ReconHandler) HandleGetFees(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	fees, err := h.reportService.Fees(r.Context(), month)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error retrieving fee details", "month", month, "error", err)
		utils.SendJSONError(w, "Error retrieving fee details", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"month": month, "fees": fees})
}
