package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/security/validation"
	"github.com/username/finassist/backend/src/utils"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding JSON response", "path", r.URL.Path, "error", err)
	}
}

// writeJSONWithETag answers 304 when the client already holds the same data.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, data any) {
	ctxLogger := logger.FromContext(r.Context())

	currentETag, etagErr := utils.GenerateETag(data)
	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				ctxLogger.Debug("ETag match", "path", r.URL.Path, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		ctxLogger.Warn("Proceeding without ETag check due to ETag generation error", "error", etagErr)
	}

	writeJSON(w, r, http.StatusOK, data)
}

// monthParam reads and validates the month query argument, answering 400 itself when invalid.
func monthParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if err := validation.ValidateMonth(month); err != nil {
		logger.FromContext(r.Context()).Debug("Invalid month argument", "month", month, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return month, true
}
