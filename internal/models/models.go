package models

import "time"

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	LastSeenAt   *time.Time `db:"last_seen_at"`
}

type Aircraft struct {
	ID         string    `db:"id"`
	TailNumber string    `db:"tail_number"`
	Make       string    `db:"make"`
	Model      string    `db:"model"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

type FAARequirement struct {
	ID              string    `db:"id"`
	CertificateType string    `db:"certificate_type"`
	RequirementType string    `db:"requirement_type"`
	Description     string    `db:"description"`
	MinimumValue    float64   `db:"minimum_value"`
	Reference       string    `db:"reference"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type StudentRequirement struct {
	ID             string     `db:"id"`
	StudentID      string     `db:"student_id"`
	RequirementID  string     `db:"requirement_id"`
	CurrentValue   float64    `db:"current_value"`
	IsComplete     bool       `db:"is_complete"`
	CompletionDate *time.Time `db:"completion_date"`
	VerifiedBy     *string    `db:"verified_by"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type FlightLogEntry struct {
	ID                  string     `db:"id"`
	StudentID           string     `db:"student_id"`
	Date                time.Time  `db:"date"`
	AircraftID          string     `db:"aircraft_id"`
	InstructorID        *string    `db:"instructor_id"`
	FlightSessionID     *string    `db:"flight_session_id"`
	TotalTime           float64    `db:"total_time"`
	PicTime             float64    `db:"pic_time"`
	SicTime             float64    `db:"sic_time"`
	SoloTime            float64    `db:"solo_time"`
	CrossCountryTime    float64    `db:"cross_country_time"`
	NightTime           float64    `db:"night_time"`
	InstrumentTime      float64    `db:"instrument_time"`
	SimulatorTime       float64    `db:"simulator_time"`
	DualReceived        float64    `db:"dual_received"`
	DualGiven           float64    `db:"dual_given"`
	LandingsDay         int        `db:"landings_day"`
	LandingsNight       int        `db:"landings_night"`
	ComplexTime         float64    `db:"complex_time"`
	HighPerformanceTime float64    `db:"high_performance_time"`
	TailwheelTime       float64    `db:"tailwheel_time"`
	MultiEngineTime     float64    `db:"multi_engine_time"`
	Remarks             *string    `db:"remarks"`
	Status              string     `db:"status"`
	VoidedBy            *string    `db:"voided_by"`
	VoidedAt            *time.Time `db:"voided_at"`
	VoidReason          *string    `db:"void_reason"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

type LogbookSignature struct {
	ID        string    `db:"id"`
	EntryID   string    `db:"entry_id"`
	UserID    string    `db:"user_id"`
	Role      string    `db:"role"`
	PinHash   string    `db:"pin_hash"`
	IsCurrent bool      `db:"is_current"`
	SignedAt  time.Time `db:"signed_at"`
}

type AuditRecord struct {
	ID          string    `db:"id"`
	EntryID     string    `db:"entry_id"`
	Action      string    `db:"action"`
	PerformedBy string    `db:"performed_by"`
	Notes       *string   `db:"notes"`
	CreatedAt   time.Time `db:"created_at"`
}

type StudentDocument struct {
	ID           string    `db:"id"`
	OwnerUserID  string    `db:"owner_user_id"`
	DocumentType string    `db:"document_type"`
	StorageKey   string    `db:"storage_key"`
	Filename     *string   `db:"filename"`
	ContentType  string    `db:"content_type"`
	SizeBytes    int64     `db:"size_bytes"`
	Sha256       *string   `db:"sha256"`
	CreatedAt    time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	HeapMaxBytes      int64     `db:"heap_max_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
