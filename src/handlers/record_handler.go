package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/tourtally/backend/src/logger"
	"github.com/username/tourtally/backend/src/models"
	"github.com/username/tourtally/backend/src/services"
	"github.com/username/tourtally/backend/src/utils"
)

type RecordHandler struct {
	uploadService services.UploadService
}

func NewRecordHandler(service services.UploadService) *RecordHandler {
	return &RecordHandler{
		uploadService: service,
	}
}

// HandleGetRecords serves stored records with their statistics, optionally
// narrowed by upload id, date range, tour name or free-text search. Responses
// carry an ETag so unchanged data can be answered with 304.
func (h *RecordHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.RecordsFilter{
		UploadID: q.Get("uploadId"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		TourName: q.Get("tourName"),
		Search:   q.Get("search"),
	}

	result, err := h.uploadService.GetRecords(filter)
	if err != nil {
		logger.L.Error("Error retrieving records", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving records: %v", err), http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(result)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for records response", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETags := strings.Split(r.Header.Get("If-None-Match"), ",")
		for _, cETag := range clientETags {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error generating JSON response for records", "error", err)
	}
}

// HandleGetUploads lists ingestion batches.
func (h *RecordHandler) HandleGetUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.uploadService.GetUploads()
	if err != nil {
		logger.L.Error("Error retrieving uploads", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving uploads: %v", err), http.StatusInternalServerError)
		return
	}
	if uploads == nil {
		uploads = []models.UploadInfo{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"uploads": uploads}); err != nil {
		logger.L.Error("Error generating JSON response for uploads", "error", err)
	}
}

// HandleDeleteUpload removes one ingestion batch.
func (h *RecordHandler) HandleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := r.PathValue("uploadId")
	if uploadID == "" {
		utils.SendJSONError(w, "uploadId path parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.DeleteUpload(uploadID); err != nil {
		logger.L.Error("Error deleting upload", "uploadID", uploadID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error deleting upload: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// HandleDeleteAllRecords wipes every stored batch.
func (h *RecordHandler) HandleDeleteAllRecords(w http.ResponseWriter, r *http.Request) {
	if err := h.uploadService.DeleteAllRecords(); err != nil {
		logger.L.Error("Error deleting all records", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error deleting records: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
