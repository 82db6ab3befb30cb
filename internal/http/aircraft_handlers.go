package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"flightline-backend-go/internal/models"
	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type AircraftResponse struct {
	ID         string    `json:"id"`
	TailNumber string    `json:"tailNumber"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func aircraftResponse(item models.Aircraft) AircraftResponse {
	return AircraftResponse{
		ID:         item.ID,
		TailNumber: item.TailNumber,
		Make:       item.Make,
		Model:      item.Model,
		Status:     item.Status,
		CreatedAt:  item.CreatedAt,
	}
}

type AircraftRequest struct {
	TailNumber string `json:"tailNumber"`
	Make       string `json:"make"`
	Model      string `json:"model"`
}

func (s *Server) ListAircraft(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListAircraft(s.DB)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]AircraftResponse, 0, len(items))
	for _, item := range items {
		out = append(out, aircraftResponse(item))
	}
	WriteJSON(w, http.StatusOK, map[string][]AircraftResponse{"items": out})
}

func (s *Server) CreateAircraft(w http.ResponseWriter, r *http.Request) {
	var req AircraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	id, err := services.CreateAircraft(s.DB, req.TailNumber, req.Make, req.Model)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) RetireAircraft(w http.ResponseWriter, r *http.Request) {
	if err := services.RetireAircraft(s.DB, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
