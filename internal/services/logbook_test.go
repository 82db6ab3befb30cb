package services

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightline-backend-go/internal/models"
)

func logbookFixture(t *testing.T) (db *sqlx.DB, studentID, aircraftID string) {
	t.Helper()
	db = newTestDB(t)
	studentID = seedUser(t, db, "student@flightline.test")
	aircraftID = seedAircraft(t, db, "N12345")
	seedRequirement(t, db, CertPrivatePilot, ReqTotalTime, 40)
	seedRequirement(t, db, CertPrivatePilot, ReqPilotInCommand, 10)
	seedRequirement(t, db, CertPrivatePilot, ReqNight, 3)
	seedRequirement(t, db, CertPrivatePilot, ReqTakeoffsLandings, 10)
	require.NoError(t, InitializeStudentRequirements(db, studentID, CertPrivatePilot))
	return db, studentID, aircraftID
}

func basicInput(aircraftID string) FlightLogInput {
	return FlightLogInput{
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		AircraftID:    aircraftID,
		TotalTime:     1.5,
		PicTime:       1.5,
		NightTime:     0.5,
		LandingsDay:   2,
		LandingsNight: 1,
	}
}

func auditActions(t *testing.T, db *sqlx.DB, entryID string) []string {
	t.Helper()
	records, err := GetAuditTrail(db, entryID)
	require.NoError(t, err)
	actions := make([]string, 0, len(records))
	for _, record := range records {
		actions = append(actions, record.Action)
	}
	return actions
}

func TestCreateFlightLogEntryCreditsLedgerAndAudits(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, entry.Status)

	assert.InDelta(t, 1.5, requirementFor(t, db, studentID, ReqTotalTime).CurrentValue, 1e-9)
	assert.InDelta(t, 3, requirementFor(t, db, studentID, ReqTakeoffsLandings).CurrentValue, 1e-9)
	assert.Equal(t, []string{"created"}, auditActions(t, db, entry.ID))
}

func TestCreateFlightLogEntryValidation(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	input := basicInput(aircraftID)
	input.AircraftID = " "
	_, err := CreateFlightLogEntry(db, studentID, studentID, input)
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)

	input = basicInput(aircraftID)
	input.NightTime = -0.5
	_, err = CreateFlightLogEntry(db, studentID, studentID, input)
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)
}

func TestUpdateDraftAppliesDiffAndInvalidatesSignatures(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	require.NoError(t, AddSignature(db, entry.ID, studentID, SignatureRoleStudent, "4321"))

	updatedInput := basicInput(aircraftID)
	updatedInput.TotalTime = 2.1
	require.NoError(t, UpdateFlightLogEntry(db, entry.ID, studentID, updatedInput))

	assert.InDelta(t, 2.1, requirementFor(t, db, studentID, ReqTotalTime).CurrentValue, 1e-9)

	var current int
	require.NoError(t, db.Get(&current, `
SELECT count(*) FROM flight_log_entry_signatures WHERE entry_id = $1 AND is_current = TRUE
`, entry.ID))
	assert.Zero(t, current, "an edit must force re-signing")
	assert.Contains(t, auditActions(t, db, entry.ID), "updated")
}

func TestUpdateRejectedForNonDraft(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	require.NoError(t, SetEntryStatus(db, entry.ID, StatusFinal, studentID, nil))

	err = UpdateFlightLogEntry(db, entry.ID, studentID, basicInput(aircraftID))
	require.Error(t, err)
	assert.Equal(t, 409, err.(ServiceError).Status)
}

func TestDeleteDraftReversesLedgerAndKeepsAudit(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	require.NoError(t, DeleteFlightLogEntry(db, entry.ID, studentID))

	assert.Zero(t, requirementFor(t, db, studentID, ReqTotalTime).CurrentValue)

	var remaining int
	require.NoError(t, db.Get(&remaining, `SELECT count(*) FROM flight_log_entries WHERE id = $1`, entry.ID))
	assert.Zero(t, remaining)

	// The audit trail has no foreign key and survives the hard delete.
	assert.Equal(t, []string{"created", "deleted"}, auditActions(t, db, entry.ID))
}

func TestDeleteRejectedForFinalEntry(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	require.NoError(t, SetEntryStatus(db, entry.ID, StatusFinal, studentID, nil))

	err = DeleteFlightLogEntry(db, entry.ID, studentID)
	require.Error(t, err)
	assert.Equal(t, 409, err.(ServiceError).Status)
}

func TestVoidRequiresReason(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)

	err = SetEntryStatus(db, entry.ID, StatusVoided, studentID, nil)
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)

	blank := "   "
	err = SetEntryStatus(db, entry.ID, StatusVoided, studentID, &blank)
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)
}

func TestVoidFinalEntryReversesLedgerAndStampsMetadata(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)
	instructorID := seedUser(t, db, "cfi@flightline.test")

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	require.NoError(t, SetEntryStatus(db, entry.ID, StatusFinal, instructorID, nil))

	reason := "Logged against the wrong aircraft"
	require.NoError(t, SetEntryStatus(db, entry.ID, StatusVoided, instructorID, &reason))

	var voided models.FlightLogEntry
	require.NoError(t, db.Get(&voided, `SELECT * FROM flight_log_entries WHERE id = $1`, entry.ID))
	assert.Equal(t, StatusVoided, voided.Status)
	require.NotNil(t, voided.VoidedBy)
	assert.Equal(t, instructorID, *voided.VoidedBy)
	assert.NotNil(t, voided.VoidedAt)
	require.NotNil(t, voided.VoidReason)
	assert.Equal(t, reason, *voided.VoidReason)

	assert.Zero(t, requirementFor(t, db, studentID, ReqTotalTime).CurrentValue)
	assert.Equal(t, []string{"created", "finalized", "voided"}, auditActions(t, db, entry.ID))
}

func TestVoidedIsTerminal(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	reason := "duplicate"
	require.NoError(t, SetEntryStatus(db, entry.ID, StatusVoided, studentID, &reason))

	for _, next := range []string{StatusDraft, StatusFinal} {
		err := SetEntryStatus(db, entry.ID, next, studentID, nil)
		require.Error(t, err, next)
		assert.Equal(t, 409, err.(ServiceError).Status)
	}
}

func TestSetEntryStatusRejectsUnknownStatus(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	entry, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)

	err = SetEntryStatus(db, entry.ID, "archived", studentID, nil)
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)
}

func TestTotalHoursExcludeVoidedEntries(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)

	first, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	_ = first

	second, err := CreateFlightLogEntry(db, studentID, studentID, basicInput(aircraftID))
	require.NoError(t, err)
	reason := "weather diversion never flown"
	require.NoError(t, SetEntryStatus(db, second.ID, StatusVoided, studentID, &reason))

	totals, err := GetStudentTotalHours(db, studentID)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, totals.TotalTime, 1e-9)
	assert.Equal(t, 2, totals.LandingsDay)
	assert.Equal(t, 1, totals.LandingsNight)
}

func TestGetFlightLogEntriesDecoration(t *testing.T) {
	db, studentID, aircraftID := logbookFixture(t)
	instructorID := seedUser(t, db, "cfi@flightline.test")
	db.MustExec(`UPDATE users SET first_name = 'Ana', last_name = 'Ionescu' WHERE id = $1`, instructorID)

	input := basicInput(aircraftID)
	input.InstructorID = &instructorID
	entry, err := CreateFlightLogEntry(db, studentID, studentID, input)
	require.NoError(t, err)
	require.NoError(t, AddSignature(db, entry.ID, studentID, SignatureRoleStudent, "4321"))

	entries, err := GetFlightLogEntries(db, studentID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "N12345", entries[0].AircraftTailNumber)
	require.NotNil(t, entries[0].InstructorName)
	assert.Equal(t, "Ana Ionescu", *entries[0].InstructorName)
	assert.True(t, entries[0].StudentSigned)
	assert.False(t, entries[0].InstructorSigned)
}
