package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeStudentRequirementsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	studentID := seedUser(t, db, "student@flightline.test")
	seedRequirement(t, db, CertPrivatePilot, ReqTotalTime, 40)
	seedRequirement(t, db, CertPrivatePilot, ReqSolo, 10)
	seedRequirement(t, db, CertCommercialPilot, ReqTotalTime, 250)

	require.NoError(t, InitializeStudentRequirements(db, studentID, CertPrivatePilot))
	require.NoError(t, InitializeStudentRequirements(db, studentID, CertPrivatePilot))

	var count int
	require.NoError(t, db.Get(&count, `SELECT count(*) FROM student_requirements WHERE student_id = $1`, studentID))
	assert.Equal(t, 2, count, "only the private pilot track is enrolled, once")
}

func TestInitializeStudentRequirementsRejectsUnknownCertificate(t *testing.T) {
	db := newTestDB(t)
	studentID := seedUser(t, db, "student@flightline.test")

	err := InitializeStudentRequirements(db, studentID, CertificateType("sport_pilot"))
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)
}

func TestVerifyStudentRequirement(t *testing.T) {
	db := newTestDB(t)
	studentID := seedUser(t, db, "student@flightline.test")
	instructorID := seedUser(t, db, "cfi@flightline.test")
	seedRequirement(t, db, CertPrivatePilot, ReqNight, 3)
	require.NoError(t, InitializeStudentRequirements(db, studentID, CertPrivatePilot))

	items, err := GetStudentRequirements(db, studentID, CertPrivatePilot)
	require.NoError(t, err)
	require.Len(t, items, 1)

	err = VerifyStudentRequirement(db, items[0].ID, instructorID)
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)

	require.NoError(t, ApplyDelta(db, studentID, ReqNight, 3))
	require.NoError(t, VerifyStudentRequirement(db, items[0].ID, instructorID))

	state := requirementFor(t, db, studentID, ReqNight)
	require.NotNil(t, state.VerifiedBy)
	assert.Equal(t, instructorID, *state.VerifiedBy)
}

func TestVerifyStudentRequirementMissing(t *testing.T) {
	db := newTestDB(t)
	instructorID := seedUser(t, db, "cfi@flightline.test")

	err := VerifyStudentRequirement(db, "no-such-row", instructorID)
	require.Error(t, err)
	assert.Equal(t, 404, err.(ServiceError).Status)
}

func TestGetStudentCertificateProgress(t *testing.T) {
	db := newTestDB(t)
	studentID := seedUser(t, db, "student@flightline.test")
	seedRequirement(t, db, CertPrivatePilot, ReqTotalTime, 40)
	seedRequirement(t, db, CertPrivatePilot, ReqNight, 3)
	seedRequirement(t, db, CertPrivatePilot, ReqSolo, 10)
	seedRequirement(t, db, CertPrivatePilot, ReqCrossCountry, 5)
	require.NoError(t, InitializeStudentRequirements(db, studentID, CertPrivatePilot))

	require.NoError(t, ApplyDelta(db, studentID, ReqNight, 4))

	progress, err := GetStudentCertificateProgress(db, studentID, CertPrivatePilot)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.TotalRequirements)
	assert.Equal(t, 1, progress.CompletedRequirements)
	assert.InDelta(t, 25, progress.ProgressPercentage, 1e-9)
	assert.Len(t, progress.Requirements, 4)
}

func TestGetStudentRequirementsUnknownCertificate(t *testing.T) {
	db := newTestDB(t)
	studentID := seedUser(t, db, "student@flightline.test")

	_, err := GetStudentRequirements(db, studentID, CertificateType("balloon"))
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)
}
