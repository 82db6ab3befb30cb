package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type FlightLogEntryRequest struct {
	Date                string  `json:"date"`
	AircraftID          string  `json:"aircraftId"`
	InstructorID        *string `json:"instructorId"`
	FlightSessionID     *string `json:"flightSessionId"`
	TotalTime           float64 `json:"totalTime"`
	PicTime             float64 `json:"picTime"`
	SicTime             float64 `json:"sicTime"`
	SoloTime            float64 `json:"soloTime"`
	CrossCountryTime    float64 `json:"crossCountryTime"`
	NightTime           float64 `json:"nightTime"`
	InstrumentTime      float64 `json:"instrumentTime"`
	SimulatorTime       float64 `json:"simulatorTime"`
	DualReceived        float64 `json:"dualReceived"`
	DualGiven           float64 `json:"dualGiven"`
	LandingsDay         int     `json:"landingsDay"`
	LandingsNight       int     `json:"landingsNight"`
	ComplexTime         float64 `json:"complexTime"`
	HighPerformanceTime float64 `json:"highPerformanceTime"`
	TailwheelTime       float64 `json:"tailwheelTime"`
	MultiEngineTime     float64 `json:"multiEngineTime"`
	Remarks             *string `json:"remarks"`
}

func (req FlightLogEntryRequest) toInput() (services.FlightLogInput, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return services.FlightLogInput{}, err
	}
	return services.FlightLogInput{
		Date:                date,
		AircraftID:          req.AircraftID,
		InstructorID:        req.InstructorID,
		FlightSessionID:     req.FlightSessionID,
		TotalTime:           req.TotalTime,
		PicTime:             req.PicTime,
		SicTime:             req.SicTime,
		SoloTime:            req.SoloTime,
		CrossCountryTime:    req.CrossCountryTime,
		NightTime:           req.NightTime,
		InstrumentTime:      req.InstrumentTime,
		SimulatorTime:       req.SimulatorTime,
		DualReceived:        req.DualReceived,
		DualGiven:           req.DualGiven,
		LandingsDay:         req.LandingsDay,
		LandingsNight:       req.LandingsNight,
		ComplexTime:         req.ComplexTime,
		HighPerformanceTime: req.HighPerformanceTime,
		TailwheelTime:       req.TailwheelTime,
		MultiEngineTime:     req.MultiEngineTime,
		Remarks:             req.Remarks,
	}, nil
}

type FlightLogEntryResponse struct {
	ID                  string     `json:"id"`
	StudentID           string     `json:"studentId"`
	Date                string     `json:"date"`
	AircraftID          string     `json:"aircraftId"`
	AircraftTailNumber  string     `json:"aircraftTailNumber,omitempty"`
	InstructorID        *string    `json:"instructorId"`
	InstructorName      *string    `json:"instructorName,omitempty"`
	FlightSessionID     *string    `json:"flightSessionId"`
	TotalTime           float64    `json:"totalTime"`
	PicTime             float64    `json:"picTime"`
	SicTime             float64    `json:"sicTime"`
	SoloTime            float64    `json:"soloTime"`
	CrossCountryTime    float64    `json:"crossCountryTime"`
	NightTime           float64    `json:"nightTime"`
	InstrumentTime      float64    `json:"instrumentTime"`
	SimulatorTime       float64    `json:"simulatorTime"`
	DualReceived        float64    `json:"dualReceived"`
	DualGiven           float64    `json:"dualGiven"`
	LandingsDay         int        `json:"landingsDay"`
	LandingsNight       int        `json:"landingsNight"`
	ComplexTime         float64    `json:"complexTime"`
	HighPerformanceTime float64    `json:"highPerformanceTime"`
	TailwheelTime       float64    `json:"tailwheelTime"`
	MultiEngineTime     float64    `json:"multiEngineTime"`
	Remarks             *string    `json:"remarks"`
	Status              string     `json:"status"`
	VoidedBy            *string    `json:"voidedBy,omitempty"`
	VoidedAt            *time.Time `json:"voidedAt,omitempty"`
	VoidReason          *string    `json:"voidReason,omitempty"`
	StudentSigned       bool       `json:"studentSigned"`
	InstructorSigned    bool       `json:"instructorSigned"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func entryResponse(detail services.FlightLogEntryDetail) FlightLogEntryResponse {
	return FlightLogEntryResponse{
		ID:                  detail.ID,
		StudentID:           detail.StudentID,
		Date:                detail.Date.Format("2006-01-02"),
		AircraftID:          detail.AircraftID,
		AircraftTailNumber:  detail.AircraftTailNumber,
		InstructorID:        detail.InstructorID,
		InstructorName:      detail.InstructorName,
		FlightSessionID:     detail.FlightSessionID,
		TotalTime:           detail.TotalTime,
		PicTime:             detail.PicTime,
		SicTime:             detail.SicTime,
		SoloTime:            detail.SoloTime,
		CrossCountryTime:    detail.CrossCountryTime,
		NightTime:           detail.NightTime,
		InstrumentTime:      detail.InstrumentTime,
		SimulatorTime:       detail.SimulatorTime,
		DualReceived:        detail.DualReceived,
		DualGiven:           detail.DualGiven,
		LandingsDay:         detail.LandingsDay,
		LandingsNight:       detail.LandingsNight,
		ComplexTime:         detail.ComplexTime,
		HighPerformanceTime: detail.HighPerformanceTime,
		TailwheelTime:       detail.TailwheelTime,
		MultiEngineTime:     detail.MultiEngineTime,
		Remarks:             detail.Remarks,
		Status:              detail.Status,
		VoidedBy:            detail.VoidedBy,
		VoidedAt:            detail.VoidedAt,
		VoidReason:          detail.VoidReason,
		StudentSigned:       detail.StudentSigned,
		InstructorSigned:    detail.InstructorSigned,
		CreatedAt:           detail.CreatedAt,
		UpdatedAt:           detail.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) entryOwner(entryID string) (string, error) {
	var studentID string
	err := s.DB.Get(&studentID, `SELECT student_id FROM flight_log_entries WHERE id = $1`, entryID)
	return studentID, err
}

func (s *Server) StudentListLogbook(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	entries, err := services.GetFlightLogEntries(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]FlightLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryResponse(entry))
	}
	WriteJSON(w, http.StatusOK, map[string][]FlightLogEntryResponse{"items": items})
}

func (s *Server) StudentCreateLogbookEntry(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req FlightLogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	input, err := req.toInput()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid date")
		return
	}
	entry, err := services.CreateFlightLogEntry(s.DB, userID, userID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	detail, err := services.GetFlightLogEntryByID(s.DB, entry.ID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, entryResponse(*detail))
}

func (s *Server) StudentGetLogbookEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	userID := CurrentUserID(r)
	detail, err := services.GetFlightLogEntryByID(s.DB, entryID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Flight log entry not found")
		return
	}
	if detail.StudentID != userID {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, entryResponse(*detail))
}

func (s *Server) StudentUpdateLogbookEntry(w http.ResponseWriter, r *http.Request) {
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
	var req FlightLogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	input, err := req.toInput()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid date")
		return
	}
	if err := services.UpdateFlightLogEntry(s.DB, entryID, userID, input); err != nil {
		writeServiceError(w, err)
		return
	}
	detail, err := services.GetFlightLogEntryByID(s.DB, entryID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, entryResponse(*detail))
}

func (s *Server) StudentDeleteLogbookEntry(w http.ResponseWriter, r *http.Request) {
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
	if err := services.DeleteFlightLogEntry(s.DB, entryID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) StudentLogbookTotals(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	totals, err := services.GetStudentTotalHours(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, totals)
}

func (s *Server) InstructorStudentLogbook(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	entries, err := services.GetFlightLogEntries(s.DB, studentID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]FlightLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryResponse(entry))
	}
	WriteJSON(w, http.StatusOK, map[string][]FlightLogEntryResponse{"items": items})
}

type EntryStatusRequest struct {
	Status     string  `json:"status"`
	VoidReason *string `json:"voidReason"`
}

func (s *Server) InstructorSetEntryStatus(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	userID := CurrentUserID(r)
	var req EntryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.SetEntryStatus(s.DB, entryID, req.Status, userID, req.VoidReason); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AuditRecordResponse struct {
	ID          string    `json:"id"`
	EntryID     string    `json:"entryId"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performedBy"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Server) InstructorEntryAudit(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryId")
	records, err := services.GetAuditTrail(s.DB, entryID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AuditRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, AuditRecordResponse{
			ID:          record.ID,
			EntryID:     record.EntryID,
			Action:      record.Action,
			PerformedBy: record.PerformedBy,
			Notes:       record.Notes,
			CreatedAt:   record.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]AuditRecordResponse{"items": items})
}
