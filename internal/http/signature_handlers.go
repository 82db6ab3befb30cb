package httpapi

import (
	"encoding/json"
	"net/http"

	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type SignatureRequest struct {
	Pin string `json:"pin"`
}

func (s *Server) StudentSignEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	userID := CurrentUserID(r)
	owner, err := s.entryOwner(entryID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Flight log entry not found")
		return
	}
	if owner != userID {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	var req SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.AddSignature(s.DB, entryID, userID, services.SignatureRoleStudent, req.Pin); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "signed"})
}

func (s *Server) InstructorSignEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	userID := CurrentUserID(r)
	var req SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.AddSignature(s.DB, entryID, userID, services.SignatureRoleInstructor, req.Pin); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "signed"})
}

func (s *Server) StudentVerifySignature(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	userID := CurrentUserID(r)
	var req SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	valid := services.VerifySignature(s.DB, entryID, userID, services.SignatureRoleStudent, req.Pin)
	WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (s *Server) InstructorVerifySignature(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	userID := CurrentUserID(r)
	var req SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	valid := services.VerifySignature(s.DB, entryID, userID, services.SignatureRoleInstructor, req.Pin)
	WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}
