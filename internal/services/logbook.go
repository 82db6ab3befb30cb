package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"flightline-backend-go/internal/models"
)

const (
	StatusDraft  = "draft"
	StatusFinal  = "final"
	StatusVoided = "voided"
)

// statusTransitions is the lifecycle of a flight log entry. Draft entries can
// be finalized or voided, final entries can only be voided, voided is
// terminal.
var statusTransitions = map[string][]string{
	StatusDraft:  {StatusFinal, StatusVoided},
	StatusFinal:  {StatusVoided},
	StatusVoided: {},
}

func transitionAllowed(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type FlightLogInput struct {
	Date                time.Time
	AircraftID          string
	InstructorID        *string
	FlightSessionID     *string
	TotalTime           float64
	PicTime             float64
	SicTime             float64
	SoloTime            float64
	CrossCountryTime    float64
	NightTime           float64
	InstrumentTime      float64
	SimulatorTime       float64
	DualReceived        float64
	DualGiven           float64
	LandingsDay         int
	LandingsNight       int
	ComplexTime         float64
	HighPerformanceTime float64
	TailwheelTime       float64
	MultiEngineTime     float64
	Remarks             *string
}

func (in FlightLogInput) validate() error {
	if in.Date.IsZero() {
		return ErrBadRequest("Date is required")
	}
	if strings.TrimSpace(in.AircraftID) == "" {
		return ErrBadRequest("Aircraft is required")
	}
	times := []float64{
		in.TotalTime, in.PicTime, in.SicTime, in.SoloTime, in.CrossCountryTime,
		in.NightTime, in.InstrumentTime, in.SimulatorTime, in.DualReceived,
		in.DualGiven, in.ComplexTime, in.HighPerformanceTime, in.TailwheelTime,
		in.MultiEngineTime,
	}
	for _, value := range times {
		if value < 0 {
			return ErrBadRequest("Time fields must not be negative")
		}
	}
	if in.LandingsDay < 0 || in.LandingsNight < 0 {
		return ErrBadRequest("Landing counts must not be negative")
	}
	return nil
}

func (in FlightLogInput) toEntry(id, studentID string, now time.Time) models.FlightLogEntry {
	return models.FlightLogEntry{
		ID:                  id,
		StudentID:           studentID,
		Date:                in.Date,
		AircraftID:          in.AircraftID,
		InstructorID:        in.InstructorID,
		FlightSessionID:     in.FlightSessionID,
		TotalTime:           in.TotalTime,
		PicTime:             in.PicTime,
		SicTime:             in.SicTime,
		SoloTime:            in.SoloTime,
		CrossCountryTime:    in.CrossCountryTime,
		NightTime:           in.NightTime,
		InstrumentTime:      in.InstrumentTime,
		SimulatorTime:       in.SimulatorTime,
		DualReceived:        in.DualReceived,
		DualGiven:           in.DualGiven,
		LandingsDay:         in.LandingsDay,
		LandingsNight:       in.LandingsNight,
		ComplexTime:         in.ComplexTime,
		HighPerformanceTime: in.HighPerformanceTime,
		TailwheelTime:       in.TailwheelTime,
		MultiEngineTime:     in.MultiEngineTime,
		Remarks:             in.Remarks,
		Status:              StatusDraft,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// CreateFlightLogEntry inserts a draft entry and credits the student's
// requirement ledger in the same transaction.
func CreateFlightLogEntry(db *sqlx.DB, studentID, performedBy string, in FlightLogInput) (*models.FlightLogEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	entry := in.toEntry(uuid.NewString(), studentID, now)

	tx, err := db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
INSERT INTO flight_log_entries (
  id, student_id, date, aircraft_id, instructor_id, flight_session_id,
  total_time, pic_time, sic_time, solo_time, cross_country_time, night_time,
  instrument_time, simulator_time, dual_received, dual_given,
  landings_day, landings_night, complex_time, high_performance_time,
  tailwheel_time, multi_engine_time, remarks, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$25)
`, entry.ID, entry.StudentID, entry.Date, entry.AircraftID, entry.InstructorID, entry.FlightSessionID,
		entry.TotalTime, entry.PicTime, entry.SicTime, entry.SoloTime, entry.CrossCountryTime, entry.NightTime,
		entry.InstrumentTime, entry.SimulatorTime, entry.DualReceived, entry.DualGiven,
		entry.LandingsDay, entry.LandingsNight, entry.ComplexTime, entry.HighPerformanceTime,
		entry.TailwheelTime, entry.MultiEngineTime, entry.Remarks, entry.Status, now)
	if err != nil {
		return nil, err
	}
	if err := ApplyEntry(tx, &entry); err != nil {
		return nil, err
	}
	if err := LogAudit(tx, entry.ID, "created", performedBy, nil); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateFlightLogEntry rewrites a draft entry, applies the signed field
// differences to the ledger and forces re-signing by clearing any current
// signatures. Final and voided entries cannot be edited.
func UpdateFlightLogEntry(db *sqlx.DB, entryID, performedBy string, in FlightLogInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var original models.FlightLogEntry
	if err := tx.Get(&original, `SELECT * FROM flight_log_entries WHERE id = $1`, entryID); err != nil {
		return ErrNotFound("Flight log entry not found")
	}
	if original.Status != StatusDraft {
		return ErrConflict("Only draft entries can be edited")
	}
	now := time.Now().UTC()
	updated := in.toEntry(original.ID, original.StudentID, now)
	updated.CreatedAt = original.CreatedAt

	_, err = tx.Exec(`
UPDATE flight_log_entries
SET date = $2, aircraft_id = $3, instructor_id = $4, flight_session_id = $5,
    total_time = $6, pic_time = $7, sic_time = $8, solo_time = $9,
    cross_country_time = $10, night_time = $11, instrument_time = $12,
    simulator_time = $13, dual_received = $14, dual_given = $15,
    landings_day = $16, landings_night = $17, complex_time = $18,
    high_performance_time = $19, tailwheel_time = $20, multi_engine_time = $21,
    remarks = $22, updated_at = $23
WHERE id = $1
`, updated.ID, updated.Date, updated.AircraftID, updated.InstructorID, updated.FlightSessionID,
		updated.TotalTime, updated.PicTime, updated.SicTime, updated.SoloTime,
		updated.CrossCountryTime, updated.NightTime, updated.InstrumentTime,
		updated.SimulatorTime, updated.DualReceived, updated.DualGiven,
		updated.LandingsDay, updated.LandingsNight, updated.ComplexTime,
		updated.HighPerformanceTime, updated.TailwheelTime, updated.MultiEngineTime,
		updated.Remarks, now)
	if err != nil {
		return err
	}
	if err := ApplyEntryDiff(tx, &original, &updated); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE flight_log_entry_signatures SET is_current = FALSE WHERE entry_id = $1`, entryID); err != nil {
		return err
	}
	if err := LogAudit(tx, entryID, "updated", performedBy, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteFlightLogEntry hard-deletes a draft entry and withdraws its ledger
// contribution. Final entries must be voided instead.
func DeleteFlightLogEntry(db *sqlx.DB, entryID, performedBy string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var entry models.FlightLogEntry
	if err := tx.Get(&entry, `SELECT * FROM flight_log_entries WHERE id = $1`, entryID); err != nil {
		return ErrNotFound("Flight log entry not found")
	}
	if entry.Status != StatusDraft {
		return ErrConflict("Only draft entries can be deleted; void the entry instead")
	}
	if err := ReverseEntry(tx, &entry); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM flight_log_entry_signatures WHERE entry_id = $1`, entryID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM flight_log_entries WHERE id = $1`, entryID); err != nil {
		return err
	}
	if err := LogAudit(tx, entryID, "deleted", performedBy, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// SetEntryStatus drives the draft/final/voided state machine. Voiding
// requires an actor and a reason, stamps voided_at and withdraws the entry's
// ledger contribution.
func SetEntryStatus(db *sqlx.DB, entryID, status, performedBy string, voidReason *string) error {
	if status != StatusDraft && status != StatusFinal && status != StatusVoided {
		return ErrBadRequest("Unknown status")
	}
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var entry models.FlightLogEntry
	if err := tx.Get(&entry, `SELECT * FROM flight_log_entries WHERE id = $1`, entryID); err != nil {
		return ErrNotFound("Flight log entry not found")
	}
	if !transitionAllowed(entry.Status, status) {
		return ErrConflict("Cannot move a " + entry.Status + " entry to " + status)
	}
	now := time.Now().UTC()
	switch status {
	case StatusVoided:
		if strings.TrimSpace(performedBy) == "" || voidReason == nil || strings.TrimSpace(*voidReason) == "" {
			return ErrBadRequest("Voiding requires a reason")
		}
		_, err = tx.Exec(`
UPDATE flight_log_entries
SET status = $2, voided_by = $3, voided_at = $4, void_reason = $5, updated_at = $4
WHERE id = $1
`, entryID, status, performedBy, now, strings.TrimSpace(*voidReason))
		if err != nil {
			return err
		}
		if err := ReverseEntry(tx, &entry); err != nil {
			return err
		}
		if err := LogAudit(tx, entryID, "voided", performedBy, voidReason); err != nil {
			return err
		}
	default:
		_, err = tx.Exec(`UPDATE flight_log_entries SET status = $2, updated_at = $3 WHERE id = $1`, entryID, status, now)
		if err != nil {
			return err
		}
		if err := LogAudit(tx, entryID, "finalized", performedBy, nil); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LogAudit appends one audit record for a state-changing logbook operation.
// Audit rows have no foreign key back to the entry so the trail survives hard
// deletes.
func LogAudit(q sqlx.Ext, entryID, action, performedBy string, notes *string) error {
	_, err := q.Exec(`
INSERT INTO flight_log_entry_audit (id, entry_id, action, performed_by, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, uuid.NewString(), entryID, action, performedBy, notes, time.Now().UTC())
	return err
}

func GetAuditTrail(db *sqlx.DB, entryID string) ([]models.AuditRecord, error) {
	records := []models.AuditRecord{}
	err := db.Select(&records, `
SELECT * FROM flight_log_entry_audit WHERE entry_id = $1 ORDER BY created_at
`, entryID)
	return records, err
}

type FlightLogEntryDetail struct {
	models.FlightLogEntry
	AircraftTailNumber string  `db:"tail_number"`
	InstructorName     *string `db:"instructor_name"`
	StudentSigned      bool
	InstructorSigned   bool
}

func GetFlightLogEntryByID(db *sqlx.DB, entryID string) (*FlightLogEntryDetail, error) {
	var detail FlightLogEntryDetail
	if err := db.Get(&detail.FlightLogEntry, `SELECT * FROM flight_log_entries WHERE id = $1`, entryID); err != nil {
		return nil, err
	}
	decorateEntry(db, &detail)
	return &detail, nil
}

// GetFlightLogEntries lists a student's entries newest first, decorated with
// aircraft, instructor and current signature state.
func GetFlightLogEntries(db *sqlx.DB, studentID string) ([]FlightLogEntryDetail, error) {
	entries := []models.FlightLogEntry{}
	if err := db.Select(&entries, `
SELECT * FROM flight_log_entries WHERE student_id = $1 ORDER BY date DESC, created_at DESC
`, studentID); err != nil {
		return nil, err
	}
	details := make([]FlightLogEntryDetail, 0, len(entries))
	for _, entry := range entries {
		detail := FlightLogEntryDetail{FlightLogEntry: entry}
		decorateEntry(db, &detail)
		details = append(details, detail)
	}
	return details, nil
}

func decorateEntry(db *sqlx.DB, detail *FlightLogEntryDetail) {
	_ = db.Get(&detail.AircraftTailNumber, `SELECT tail_number FROM aircraft WHERE id = $1`, detail.AircraftID)
	if detail.InstructorID != nil {
		var name string
		if err := db.Get(&name, `
SELECT COALESCE(first_name, '') || ' ' || COALESCE(last_name, '') FROM users WHERE id = $1
`, *detail.InstructorID); err == nil {
			trimmed := strings.TrimSpace(name)
			if trimmed != "" {
				detail.InstructorName = &trimmed
			}
		}
	}
	_ = db.Get(&detail.StudentSigned, `
SELECT EXISTS(SELECT 1 FROM flight_log_entry_signatures WHERE entry_id = $1 AND role = 'student' AND is_current = TRUE)
`, detail.ID)
	_ = db.Get(&detail.InstructorSigned, `
SELECT EXISTS(SELECT 1 FROM flight_log_entry_signatures WHERE entry_id = $1 AND role = 'instructor' AND is_current = TRUE)
`, detail.ID)
}

type TotalHours struct {
	TotalTime           float64 `db:"total_time" json:"totalTime"`
	PicTime             float64 `db:"pic_time" json:"picTime"`
	SicTime             float64 `db:"sic_time" json:"sicTime"`
	SoloTime            float64 `db:"solo_time" json:"soloTime"`
	CrossCountryTime    float64 `db:"cross_country_time" json:"crossCountryTime"`
	NightTime           float64 `db:"night_time" json:"nightTime"`
	InstrumentTime      float64 `db:"instrument_time" json:"instrumentTime"`
	SimulatorTime       float64 `db:"simulator_time" json:"simulatorTime"`
	DualReceived        float64 `db:"dual_received" json:"dualReceived"`
	DualGiven           float64 `db:"dual_given" json:"dualGiven"`
	LandingsDay         int     `db:"landings_day" json:"landingsDay"`
	LandingsNight       int     `db:"landings_night" json:"landingsNight"`
	ComplexTime         float64 `db:"complex_time" json:"complexTime"`
	HighPerformanceTime float64 `db:"high_performance_time" json:"highPerformanceTime"`
	TailwheelTime       float64 `db:"tailwheel_time" json:"tailwheelTime"`
	MultiEngineTime     float64 `db:"multi_engine_time" json:"multiEngineTime"`
}

// GetStudentTotalHours sums the tracked categories over the student's
// non-voided entries.
func GetStudentTotalHours(db *sqlx.DB, studentID string) (*TotalHours, error) {
	var totals TotalHours
	err := db.Get(&totals, `
SELECT COALESCE(SUM(total_time), 0) AS total_time,
       COALESCE(SUM(pic_time), 0) AS pic_time,
       COALESCE(SUM(sic_time), 0) AS sic_time,
       COALESCE(SUM(solo_time), 0) AS solo_time,
       COALESCE(SUM(cross_country_time), 0) AS cross_country_time,
       COALESCE(SUM(night_time), 0) AS night_time,
       COALESCE(SUM(instrument_time), 0) AS instrument_time,
       COALESCE(SUM(simulator_time), 0) AS simulator_time,
       COALESCE(SUM(dual_received), 0) AS dual_received,
       COALESCE(SUM(dual_given), 0) AS dual_given,
       COALESCE(SUM(landings_day), 0) AS landings_day,
       COALESCE(SUM(landings_night), 0) AS landings_night,
       COALESCE(SUM(complex_time), 0) AS complex_time,
       COALESCE(SUM(high_performance_time), 0) AS high_performance_time,
       COALESCE(SUM(tailwheel_time), 0) AS tailwheel_time,
       COALESCE(SUM(multi_engine_time), 0) AS multi_engine_time
FROM flight_log_entries
WHERE student_id = $1 AND status != 'voided'
`, studentID)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
