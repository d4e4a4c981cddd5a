package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/tourtally/backend/src/config"
	"github.com/username/tourtally/backend/src/logger"
	"github.com/username/tourtally/backend/src/security/validation"
	"github.com/username/tourtally/backend/src/services"
	"github.com/username/tourtally/backend/src/utils"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: service,
	}
}

// HandleFileUpload ingests one reconciliation report spreadsheet.
func (h *UploadHandler) HandleFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		logger.L.Warn("Unsupported file extension", "filename", fileHeader.Filename)
		utils.SendJSONError(w, "Unsupported file format. Expected .xlsx", http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateSpreadsheetMagicBytes(file); err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing report upload", "filename", fileHeader.Filename)
	result, err := h.uploadService.ProcessReportUpload(file)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Upload processing failed due to parsing errors", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing report file: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error processing upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for upload result", "error", err)
	}
}

// HandleTextUpload ingests pasted order text: JSON body {"text": "..."}.
func (h *UploadHandler) HandleTextUpload(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.L.Warn("Failed to decode text upload payload", "error", err)
		utils.SendJSONError(w, "Invalid JSON payload. Expected {\"text\": \"...\"}.", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.SendJSONError(w, "Text payload is empty.", http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing text upload", "length", len(payload.Text))
	result, err := h.uploadService.ProcessTextUpload(payload.Text)
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			utils.SendJSONError(w, "No orders could be recognized in the text. Check the format.", http.StatusBadRequest)
		} else if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Text upload processing failed", "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing order text: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error processing text upload", "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the text. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for text upload result", "error", err)
	}
}
