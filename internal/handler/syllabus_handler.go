package handler

import (
	"encoding/json"
	"net/http"

	"edubatch/internal/domain"
	"edubatch/internal/middleware"
	"edubatch/internal/service"
)

// SyllabusHandler handles syllabus endpoints
type SyllabusHandler struct {
	syllabusService *service.SyllabusService
}

// NewSyllabusHandler creates a new syllabus handler
func NewSyllabusHandler(syllabusService *service.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabusService: syllabusService}
}

// SyllabusRequest represents a syllabus create/update request
type SyllabusRequest struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

// Create creates a new syllabus
func (h *SyllabusHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req SyllabusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	syllabus := &domain.Syllabus{
		Name:      req.Name,
		Topics:    req.Topics,
		CreatedBy: claims.UserID,
		UpdatedBy: claims.UserID,
	}
	if err := h.syllabusService.CreateSyllabus(r.Context(), syllabus); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, syllabus)
}

// List retrieves all syllabuses
func (h *SyllabusHandler) List(w http.ResponseWriter, r *http.Request) {
	syllabuses, err := h.syllabusService.ListSyllabus(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"syllabus": syllabuses})
}

// Get retrieves one syllabus
func (h *SyllabusHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "syllabusID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid syllabus ID")
		return
	}

	syllabus, err := h.syllabusService.GetSyllabus(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, syllabus)
}

// Update rewrites a syllabus
func (h *SyllabusHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := urlParamInt64(r, "syllabusID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid syllabus ID")
		return
	}

	var req SyllabusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	syllabus := &domain.Syllabus{
		ID:        id,
		Name:      req.Name,
		Topics:    req.Topics,
		UpdatedBy: claims.UserID,
	}
	if err := h.syllabusService.UpdateSyllabus(r.Context(), syllabus); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, syllabus)
}

// Delete removes a syllabus
func (h *SyllabusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "syllabusID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid syllabus ID")
		return
	}

	if err := h.syllabusService.DeleteSyllabus(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
