package handler

import (
	"encoding/json"
	"net/http"

	"edubatch/internal/domain"
	"edubatch/internal/middleware"
	"edubatch/internal/service"
)

// StudentHandler handles student profile and enrollment endpoints
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// StudentRequest represents a student create/update request
type StudentRequest struct {
	UserID         int64  `json:"user_id"`
	Degree         string `json:"degree"`
	Specialization string `json:"specialization"`
	PassoutYear    int    `json:"passout_year"`
	City           string `json:"city"`
	State          string `json:"state"`
	ReferralBy     int64  `json:"referral_by"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

// EnrollRequest represents an enrollment request
type EnrollRequest struct {
	StudentID int64 `json:"student_id"`
}

// Create creates a new student profile
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	student := &domain.Student{
		UserID:         req.UserID,
		Degree:         req.Degree,
		Specialization: req.Specialization,
		PassoutYear:    req.PassoutYear,
		City:           req.City,
		State:          req.State,
		ReferralBy:     req.ReferralBy,
		CreatedBy:      claims.UserID,
		UpdatedBy:      claims.UserID,
	}
	if err := h.studentService.CreateStudent(r.Context(), student); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// List retrieves all students
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.ListStudents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"students": students})
}

// Get retrieves one student
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetStudent(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// Update rewrites a student profile
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := urlParamInt64(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	var req StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	student := &domain.Student{
		ID:             id,
		UserID:         req.UserID,
		Degree:         req.Degree,
		Specialization: req.Specialization,
		PassoutYear:    req.PassoutYear,
		City:           req.City,
		State:          req.State,
		ReferralBy:     req.ReferralBy,
		UpdatedBy:      claims.UserID,
		IsActive:       true,
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}
	if err := h.studentService.UpdateStudent(r.Context(), student); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// Delete removes a student profile
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	if err := h.studentService.DeleteStudent(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Enroll maps a student into a batch
func (h *StudentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
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

	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enrollment := &domain.Enrollment{
		BatchID:   batchID,
		StudentID: req.StudentID,
		CreatedBy: claims.UserID,
		UpdatedBy: claims.UserID,
	}
	if err := h.studentService.Enroll(r.Context(), enrollment); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollment)
}

// Roster lists a batch's enrollments
func (h *StudentHandler) Roster(w http.ResponseWriter, r *http.Request) {
	batchID, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	roster, err := h.studentService.Roster(r.Context(), batchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"students": roster})
}

// Unenroll removes a batch-student mapping
func (h *StudentHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	enrollmentID, err := urlParamInt64(r, "enrollmentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid enrollment ID")
		return
	}

	if err := h.studentService.Unenroll(r.Context(), enrollmentID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
