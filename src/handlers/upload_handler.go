// backend/src/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/username/finassist/backend/src/config"
	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/models"
	"github.com/username/finassist/backend/src/security/validation"
	"github.com/username/finassist/backend/src/services"
	"github.com/username/finassist/backend/src/utils"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: service,
	}
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	maxSize := config.Cfg.MaxUploadSizeBytes

	// both files share the limit, plus some room for the multipart envelope
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", maxSize)
		utils.SendJSONError(w, fmt.Sprintf("Falha ao processar ou o ficheiro é demasiado grande (max %d MB)", maxSize/(1024*1024)), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	salesFile, err := readFormFile(r, models.FileTypeSales, maxSize)
	if err != nil {
		ctxLogger.Warn("Invalid sales file", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	bankFile, err := readFormFile(r, models.FileTypeBank, maxSize)
	if err != nil {
		ctxLogger.Warn("Invalid bank file", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.uploadService.ProcessUpload(r.Context(), salesFile, bankFile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFiles):
			utils.SendJSONError(w, "Nenhum ficheiro enviado. Use os campos 'sales' e/ou 'bank'.", http.StatusBadRequest)
		case errors.Is(err, services.ErrUnsupportedDocument), errors.Is(err, services.ErrParsingFailed):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			ctxLogger.Error("Upload processing failed", "error", err)
			utils.SendJSONError(w, "Failed to process upload", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// readFormFile returns nil when the field is absent.
func readFormFile(r *http.Request, field string, maxSize int64) (*services.UploadFile, error) {
	file, fileHeader, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve '%s' file from request: %w", field, err)
	}
	defer file.Close()

	if err := validateFileHeader(fileHeader, maxSize); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s' file: %w", field, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: file '%s' exceeds %d bytes", validation.ErrValidationFailed, fileHeader.Filename, maxSize)
	}
	return &services.UploadFile{Filename: fileHeader.Filename, Data: data}, nil
}

func validateFileHeader(fh *multipart.FileHeader, maxSize int64) error {
	if fh.Size > maxSize {
		return fmt.Errorf("%w: file '%s' exceeds %d bytes", validation.ErrValidationFailed, fh.Filename, maxSize)
	}
	if err := validation.ValidateStringMaxLength(fh.Filename, validation.MaxFilenameLength, "filename"); err != nil {
		return err
	}
	return validation.ValidateClientContentType(fh.Header.Get("Content-Type"))
}
