package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"edubatch/internal/domain"
	"edubatch/internal/middleware"
	"edubatch/internal/service"
)

// BatchHandler handles batch and class schedule endpoints
type BatchHandler struct {
	batchService *service.BatchService
	chatService  *service.ChatService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batchService *service.BatchService, chatService *service.ChatService) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
		chatService:  chatService,
	}
}

// BatchRequest represents a batch create/update request
type BatchRequest struct {
	Name        string    `json:"name"`
	SyllabusIDs []int64   `json:"syllabus_ids"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MentorID    int64     `json:"mentor"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// ScheduleRequest represents a class schedule create/update request
type ScheduleRequest struct {
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Topic     string `json:"topic"`
}

// Create creates a new batch
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	batch := &domain.Batch{
		Name:        req.Name,
		SyllabusIDs: req.SyllabusIDs,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MentorID:    req.MentorID,
		CreatedBy:   claims.UserID,
		UpdatedBy:   claims.UserID,
	}
	if err := h.batchService.CreateBatch(r.Context(), batch); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, batch)
}

// List retrieves all batches
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.batchService.ListBatches(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

// Get retrieves one batch
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	batch, err := h.batchService.GetBatch(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

// Update rewrites a batch
func (h *BatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	batch := &domain.Batch{
		ID:          id,
		Name:        req.Name,
		SyllabusIDs: req.SyllabusIDs,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MentorID:    req.MentorID,
		UpdatedBy:   claims.UserID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		batch.IsActive = *req.IsActive
	}
	if err := h.batchService.UpdateBatch(r.Context(), batch); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

// Delete removes a batch together with its schedules and enrollments
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	if err := h.batchService.DeleteBatch(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ChatHistory retrieves recent chat messages of a batch's room
func (h *BatchHandler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	messages, err := h.chatService.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// CreateSchedule adds a weekly class slot to a batch
func (h *BatchHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	batchID, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	schedule := &domain.ClassSchedule{
		BatchID:   batchID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Topic:     req.Topic,
		CreatedBy: claims.UserID,
		UpdatedBy: claims.UserID,
	}
	if err := h.batchService.CreateSchedule(r.Context(), schedule); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, schedule)
}

// ListSchedules retrieves all class slots of a batch
func (h *BatchHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	batchID, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	schedules, err := h.batchService.ListSchedules(r.Context(), batchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"class_schedules": schedules})
}

// UpdateSchedule rewrites a class slot
func (h *BatchHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	batchID, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}
	scheduleID, err := urlParamInt64(r, "scheduleID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	schedule := &domain.ClassSchedule{
		ID:        scheduleID,
		BatchID:   batchID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Topic:     req.Topic,
		UpdatedBy: claims.UserID,
		IsActive:  true,
	}
	if err := h.batchService.UpdateSchedule(r.Context(), schedule); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule removes a class slot
func (h *BatchHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	batchID, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}
	scheduleID, err := urlParamInt64(r, "scheduleID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule ID")
		return
	}

	if err := h.batchService.DeleteSchedule(r.Context(), scheduleID, batchID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
