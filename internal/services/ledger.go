package services

import (
	"time"

	"github.com/jmoiron/sqlx"

	"flightline-backend-go/internal/models"
)

// trackedCategories maps flight log time fields onto the requirement types
// they accumulate into. Adding a tracked category is a one-line change here.
// Landings are handled separately because day and night sum into a single
// takeoffs_landings requirement.
type trackedCategory struct {
	requirementType RequirementType
	value           func(e *models.FlightLogEntry) float64
}

var trackedCategories = []trackedCategory{
	{ReqTotalTime, func(e *models.FlightLogEntry) float64 { return e.TotalTime }},
	{ReqPilotInCommand, func(e *models.FlightLogEntry) float64 { return e.PicTime }},
	{ReqSolo, func(e *models.FlightLogEntry) float64 { return e.SoloTime }},
	{ReqCrossCountry, func(e *models.FlightLogEntry) float64 { return e.CrossCountryTime }},
	{ReqNight, func(e *models.FlightLogEntry) float64 { return e.NightTime }},
	{ReqInstrument, func(e *models.FlightLogEntry) float64 { return e.InstrumentTime }},
	{ReqSimulator, func(e *models.FlightLogEntry) float64 { return e.SimulatorTime }},
	{ReqDualReceived, func(e *models.FlightLogEntry) float64 { return e.DualReceived }},
	{ReqDualGiven, func(e *models.FlightLogEntry) float64 { return e.DualGiven }},
	{ReqComplex, func(e *models.FlightLogEntry) float64 { return e.ComplexTime }},
	{ReqHighPerformance, func(e *models.FlightLogEntry) float64 { return e.HighPerformanceTime }},
	{ReqTailwheel, func(e *models.FlightLogEntry) float64 { return e.TailwheelTime }},
	{ReqMultiEngine, func(e *models.FlightLogEntry) float64 { return e.MultiEngineTime }},
}

// ApplyDelta adds delta to every requirement row of the student tracking the
// given type. Values are floored at zero and completion is recomputed on each
// write; completion_date is set on the incomplete-to-complete transition and
// never cleared afterwards. A student with no row for the type is a no-op.
func ApplyDelta(q sqlx.Ext, studentID string, requirementType RequirementType, delta float64) error {
	if delta == 0 {
		return nil
	}
	rows := []struct {
		ID             string     `db:"id"`
		CurrentValue   float64    `db:"current_value"`
		IsComplete     bool       `db:"is_complete"`
		CompletionDate *time.Time `db:"completion_date"`
		MinimumValue   float64    `db:"minimum_value"`
	}{}
	if err := sqlx.Select(q, &rows, `
SELECT sr.id, sr.current_value, sr.is_complete, sr.completion_date, fr.minimum_value
FROM student_requirements sr
JOIN faa_requirements fr ON fr.id = sr.requirement_id
WHERE sr.student_id = $1 AND fr.requirement_type = $2
`, studentID, requirementType); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, row := range rows {
		newValue := row.CurrentValue + delta
		if newValue < 0 {
			newValue = 0
		}
		isComplete := newValue >= row.MinimumValue
		completionDate := row.CompletionDate
		if isComplete && !row.IsComplete && completionDate == nil {
			completionDate = &now
		}
		if _, err := q.Exec(`
UPDATE student_requirements
SET current_value = $2, is_complete = $3, completion_date = $4, updated_at = $5
WHERE id = $1
`, row.ID, newValue, isComplete, completionDate, now); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTakeoffsLandings folds day and night landing deltas into the single
// takeoffs_landings requirement.
func ApplyTakeoffsLandings(q sqlx.Ext, studentID string, dayDelta, nightDelta int) error {
	return ApplyDelta(q, studentID, ReqTakeoffsLandings, float64(dayDelta+nightDelta))
}

func applyEntry(q sqlx.Ext, entry *models.FlightLogEntry, sign float64) error {
	for _, category := range trackedCategories {
		if err := ApplyDelta(q, entry.StudentID, category.requirementType, sign*category.value(entry)); err != nil {
			return err
		}
	}
	day := entry.LandingsDay
	night := entry.LandingsNight
	if sign < 0 {
		day, night = -day, -night
	}
	return ApplyTakeoffsLandings(q, entry.StudentID, day, night)
}

// ApplyEntry credits a newly logged flight in full.
func ApplyEntry(q sqlx.Ext, entry *models.FlightLogEntry) error {
	return applyEntry(q, entry, 1)
}

// ReverseEntry withdraws a flight's full contribution, used on hard delete of
// a draft and on voiding.
func ReverseEntry(q sqlx.Ext, entry *models.FlightLogEntry) error {
	return applyEntry(q, entry, -1)
}

// ApplyEntryDiff applies the signed per-category difference between the
// pre-edit and post-edit snapshots of an entry. An edit that changes nothing
// produces no writes.
func ApplyEntryDiff(q sqlx.Ext, original, updated *models.FlightLogEntry) error {
	for _, category := range trackedCategories {
		delta := category.value(updated) - category.value(original)
		if err := ApplyDelta(q, original.StudentID, category.requirementType, delta); err != nil {
			return err
		}
	}
	return ApplyTakeoffsLandings(q, original.StudentID,
		updated.LandingsDay-original.LandingsDay,
		updated.LandingsNight-original.LandingsNight)
}
