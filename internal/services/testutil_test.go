package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"flightline-backend-go/internal/models"
)

const testSchema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NULL,
  last_name TEXT NULL,
  status TEXT NOT NULL DEFAULT 'ACTIVE',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  last_login_at TIMESTAMP NULL,
  last_seen_at TIMESTAMP NULL
);

CREATE TABLE user_roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  assigned_at TIMESTAMP NOT NULL,
  UNIQUE (user_id, role)
);

CREATE TABLE aircraft (
  id TEXT PRIMARY KEY,
  tail_number TEXT NOT NULL UNIQUE,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'ACTIVE',
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE faa_requirements (
  id TEXT PRIMARY KEY,
  certificate_type TEXT NOT NULL,
  requirement_type TEXT NOT NULL,
  description TEXT NOT NULL,
  minimum_value REAL NOT NULL,
  reference TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  UNIQUE (certificate_type, requirement_type)
);

CREATE TABLE student_requirements (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  requirement_id TEXT NOT NULL,
  current_value REAL NOT NULL DEFAULT 0,
  is_complete BOOLEAN NOT NULL DEFAULT FALSE,
  completion_date TIMESTAMP NULL,
  verified_by TEXT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  UNIQUE (student_id, requirement_id)
);

CREATE TABLE flight_log_entries (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  date TIMESTAMP NOT NULL,
  aircraft_id TEXT NOT NULL,
  instructor_id TEXT NULL,
  flight_session_id TEXT NULL,
  total_time REAL NOT NULL DEFAULT 0,
  pic_time REAL NOT NULL DEFAULT 0,
  sic_time REAL NOT NULL DEFAULT 0,
  solo_time REAL NOT NULL DEFAULT 0,
  cross_country_time REAL NOT NULL DEFAULT 0,
  night_time REAL NOT NULL DEFAULT 0,
  instrument_time REAL NOT NULL DEFAULT 0,
  simulator_time REAL NOT NULL DEFAULT 0,
  dual_received REAL NOT NULL DEFAULT 0,
  dual_given REAL NOT NULL DEFAULT 0,
  landings_day INTEGER NOT NULL DEFAULT 0,
  landings_night INTEGER NOT NULL DEFAULT 0,
  complex_time REAL NOT NULL DEFAULT 0,
  high_performance_time REAL NOT NULL DEFAULT 0,
  tailwheel_time REAL NOT NULL DEFAULT 0,
  multi_engine_time REAL NOT NULL DEFAULT 0,
  remarks TEXT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  voided_by TEXT NULL,
  voided_at TIMESTAMP NULL,
  void_reason TEXT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);

CREATE TABLE flight_log_entry_signatures (
  id TEXT PRIMARY KEY,
  entry_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  pin_hash TEXT NOT NULL,
  is_current BOOLEAN NOT NULL DEFAULT TRUE,
  signed_at TIMESTAMP NOT NULL
);

CREATE TABLE flight_log_entry_audit (
  id TEXT PRIMARY KEY,
  entry_id TEXT NOT NULL,
  action TEXT NOT NULL,
  performed_by TEXT NOT NULL,
  notes TEXT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE student_documents (
  id TEXT PRIMARY KEY,
  owner_user_id TEXT NOT NULL,
  document_type TEXT NOT NULL,
  storage_key TEXT NOT NULL,
  filename TEXT NULL,
  content_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  sha256 TEXT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE TABLE server_metric_samples (
  id TEXT PRIMARY KEY,
  captured_at TIMESTAMP NOT NULL,
  heap_used_bytes INTEGER NOT NULL,
  heap_max_bytes INTEGER NOT NULL,
  system_memory_total_bytes INTEGER NOT NULL,
  system_memory_used_bytes INTEGER NOT NULL,
  disk_total_bytes INTEGER NOT NULL,
  disk_used_bytes INTEGER NOT NULL,
  process_cpu_load REAL NOT NULL,
  system_cpu_load REAL NOT NULL
);
`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second connection would see a different empty in-memory database.
	db.SetMaxOpenConns(1)
	db.MustExec(testSchema)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, email string) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	db.MustExec(`
INSERT INTO users (id, email, password_hash, status, created_at, updated_at)
VALUES ($1,$2,'x','ACTIVE',$3,$3)
`, id, email, now)
	return id
}

func seedAircraft(t *testing.T, db *sqlx.DB, tailNumber string) string {
	t.Helper()
	id := uuid.NewString()
	db.MustExec(`
INSERT INTO aircraft (id, tail_number, make, model, status, created_at)
VALUES ($1,$2,'Cessna','172S','ACTIVE',$3)
`, id, tailNumber, time.Now().UTC())
	return id
}

func seedRequirement(t *testing.T, db *sqlx.DB, certificateType CertificateType, requirementType RequirementType, minimum float64) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	db.MustExec(`
INSERT INTO faa_requirements (id, certificate_type, requirement_type, description, minimum_value, reference, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,'14 CFR 61.109',$6,$6)
`, id, certificateType, requirementType, string(requirementType)+" hours", minimum, now)
	return id
}

type requirementState struct {
	CurrentValue   float64    `db:"current_value"`
	IsComplete     bool       `db:"is_complete"`
	CompletionDate *time.Time `db:"completion_date"`
	VerifiedBy     *string    `db:"verified_by"`
}

func requirementFor(t *testing.T, db *sqlx.DB, studentID string, requirementType RequirementType) requirementState {
	t.Helper()
	var state requirementState
	require.NoError(t, db.Get(&state, `
SELECT sr.current_value, sr.is_complete, sr.completion_date, sr.verified_by
FROM student_requirements sr
JOIN faa_requirements fr ON fr.id = sr.requirement_id
WHERE sr.student_id = $1 AND fr.requirement_type = $2
`, studentID, requirementType))
	return state
}

func basicEntry(studentID, aircraftID string) models.FlightLogEntry {
	return models.FlightLogEntry{
		ID:            uuid.NewString(),
		StudentID:     studentID,
		AircraftID:    aircraftID,
		TotalTime:     1.5,
		PicTime:       1.5,
		NightTime:     0.5,
		LandingsDay:   2,
		LandingsNight: 1,
	}
}
