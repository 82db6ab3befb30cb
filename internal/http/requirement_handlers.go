package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"flightline-backend-go/internal/models"
	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type RequirementResponse struct {
	ID              string    `json:"id"`
	CertificateType string    `json:"certificateType"`
	RequirementType string    `json:"requirementType"`
	Description     string    `json:"description"`
	MinimumValue    float64   `json:"minimumValue"`
	Reference       string    `json:"reference"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func requirementResponse(item models.FAARequirement) RequirementResponse {
	return RequirementResponse{
		ID:              item.ID,
		CertificateType: item.CertificateType,
		RequirementType: item.RequirementType,
		Description:     item.Description,
		MinimumValue:    item.MinimumValue,
		Reference:       item.Reference,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

type RequirementRequest struct {
	CertificateType string  `json:"certificateType"`
	RequirementType string  `json:"requirementType"`
	Description     string  `json:"description"`
	MinimumValue    float64 `json:"minimumValue"`
	Reference       string  `json:"reference"`
}

func (req RequirementRequest) toInput() services.RequirementInput {
	return services.RequirementInput{
		CertificateType: services.CertificateType(req.CertificateType),
		RequirementType: services.RequirementType(req.RequirementType),
		Description:     req.Description,
		MinimumValue:    req.MinimumValue,
		Reference:       req.Reference,
	}
}

func (s *Server) ListRequirements(w http.ResponseWriter, r *http.Request) {
	certificateType := services.CertificateType(r.URL.Query().Get("certificateType"))
	items, err := services.GetFAARequirements(s.DB, certificateType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]RequirementResponse, 0, len(items))
	for _, item := range items {
		out = append(out, requirementResponse(item))
	}
	WriteJSON(w, http.StatusOK, map[string][]RequirementResponse{"items": out})
}

func (s *Server) GetRequirement(w http.ResponseWriter, r *http.Request) {
	item, err := services.GetFAARequirementByID(s.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, requirementResponse(*item))
}

func (s *Server) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	id, err := services.CreateFAARequirement(s.DB, req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.UpdateFAARequirement(s.DB, chi.URLParam(r, "id"), req.toInput()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteFAARequirement(s.DB, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) StudentRequirements(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	certificateType := services.CertificateType(r.URL.Query().Get("certificateType"))
	items, err := services.GetStudentRequirements(s.DB, userID, certificateType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.StudentRequirementDetail{"items": items})
}

func (s *Server) StudentProgress(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	certificateType := services.CertificateType(r.URL.Query().Get("certificateType"))
	if certificateType == "" {
		certificateType = services.CertPrivatePilot
	}
	progress, err := services.GetStudentCertificateProgress(s.DB, userID, certificateType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, progress)
}

type EnrollRequest struct {
	CertificateType string `json:"certificateType"`
}

func (s *Server) InstructorEnrollStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.InitializeStudentRequirements(s.DB, studentID, services.CertificateType(req.CertificateType)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) InstructorStudentRequirements(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	certificateType := services.CertificateType(r.URL.Query().Get("certificateType"))
	items, err := services.GetStudentRequirements(s.DB, studentID, certificateType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.StudentRequirementDetail{"items": items})
}

func (s *Server) InstructorVerifyRequirement(w http.ResponseWriter, r *http.Request) {
	requirementID := chi.URLParam(r, "id")
	userID := CurrentUserID(r)
	if err := services.VerifyStudentRequirement(s.DB, requirementID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	item, err := services.GetStudentRequirementByID(s.DB, requirementID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}
