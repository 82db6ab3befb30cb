package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"flightline-backend-go/internal/models"
)

type CertificateType string

const (
	CertPrivatePilot     CertificateType = "private_pilot"
	CertCommercialPilot  CertificateType = "commercial_pilot"
	CertInstrumentRating CertificateType = "instrument_rating"
	CertFlightInstructor CertificateType = "flight_instructor"
	CertMultiEngine      CertificateType = "multi_engine"
	CertATP              CertificateType = "atp"
)

var certificateTypes = []CertificateType{
	CertPrivatePilot,
	CertCommercialPilot,
	CertInstrumentRating,
	CertFlightInstructor,
	CertMultiEngine,
	CertATP,
}

func (c CertificateType) Valid() bool {
	for _, known := range certificateTypes {
		if c == known {
			return true
		}
	}
	return false
}

type RequirementType string

const (
	ReqTotalTime         RequirementType = "total_time"
	ReqPilotInCommand    RequirementType = "pilot_in_command"
	ReqSolo              RequirementType = "solo"
	ReqSoloCrossCountry  RequirementType = "solo_cross_country"
	ReqCrossCountry      RequirementType = "cross_country"
	ReqNight             RequirementType = "night"
	ReqInstrument        RequirementType = "instrument"
	ReqComplex           RequirementType = "complex"
	ReqHighPerformance   RequirementType = "high_performance"
	ReqTailwheel         RequirementType = "tailwheel"
	ReqMultiEngine       RequirementType = "multi_engine"
	ReqSimulator         RequirementType = "simulator"
	ReqDualReceived      RequirementType = "dual_received"
	ReqDualGiven         RequirementType = "dual_given"
	ReqTakeoffsLandings  RequirementType = "takeoffs_landings"
	ReqLongCrossCountry  RequirementType = "long_cross_country"
	ReqCheckride         RequirementType = "checkride"
)

var requirementTypes = []RequirementType{
	ReqTotalTime,
	ReqPilotInCommand,
	ReqSolo,
	ReqSoloCrossCountry,
	ReqCrossCountry,
	ReqNight,
	ReqInstrument,
	ReqComplex,
	ReqHighPerformance,
	ReqTailwheel,
	ReqMultiEngine,
	ReqSimulator,
	ReqDualReceived,
	ReqDualGiven,
	ReqTakeoffsLandings,
	ReqLongCrossCountry,
	ReqCheckride,
}

func (r RequirementType) Valid() bool {
	for _, known := range requirementTypes {
		if r == known {
			return true
		}
	}
	return false
}

type RequirementInput struct {
	CertificateType CertificateType
	RequirementType RequirementType
	Description     string
	MinimumValue    float64
	Reference       string
}

func (in RequirementInput) validate() error {
	if !in.CertificateType.Valid() {
		return ErrBadRequest("Unknown certificate type")
	}
	if !in.RequirementType.Valid() {
		return ErrBadRequest("Unknown requirement type")
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrBadRequest("Description is required")
	}
	if in.MinimumValue < 0 {
		return ErrBadRequest("Minimum value must not be negative")
	}
	return nil
}

func GetFAARequirements(db *sqlx.DB, certificateType CertificateType) ([]models.FAARequirement, error) {
	items := []models.FAARequirement{}
	if certificateType != "" {
		if !certificateType.Valid() {
			return nil, ErrBadRequest("Unknown certificate type")
		}
		err := db.Select(&items, `
SELECT * FROM faa_requirements
WHERE certificate_type = $1
ORDER BY requirement_type
`, certificateType)
		return items, err
	}
	err := db.Select(&items, `SELECT * FROM faa_requirements ORDER BY certificate_type, requirement_type`)
	return items, err
}

func GetFAARequirementByID(db *sqlx.DB, id string) (*models.FAARequirement, error) {
	var item models.FAARequirement
	if err := db.Get(&item, `SELECT * FROM faa_requirements WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

func CreateFAARequirement(db *sqlx.DB, in RequirementInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO faa_requirements (id, certificate_type, requirement_type, description, minimum_value, reference, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
`, id, in.CertificateType, in.RequirementType, strings.TrimSpace(in.Description), in.MinimumValue, in.Reference, time.Now().UTC())
	return id, err
}

func UpdateFAARequirement(db *sqlx.DB, id string, in RequirementInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	result, err := db.Exec(`
UPDATE faa_requirements
SET certificate_type = $2, requirement_type = $3, description = $4, minimum_value = $5, reference = $6, updated_at = $7
WHERE id = $1
`, id, in.CertificateType, in.RequirementType, strings.TrimSpace(in.Description), in.MinimumValue, in.Reference, time.Now().UTC())
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound("Requirement not found")
	}
	return nil
}

func DeleteFAARequirement(db *sqlx.DB, id string) error {
	_, err := db.Exec(`DELETE FROM faa_requirements WHERE id = $1`, id)
	return err
}

type catalogSeed struct {
	requirementType RequirementType
	description     string
	minimumValue    float64
	reference       string
}

var privatePilotSeed = []catalogSeed{
	{ReqTotalTime, "Total flight time", 40, "14 CFR 61.109(a)"},
	{ReqDualReceived, "Flight training from an authorized instructor", 20, "14 CFR 61.109(a)"},
	{ReqSolo, "Solo flight time", 10, "14 CFR 61.109(a)(5)"},
	{ReqSoloCrossCountry, "Solo cross-country flight time", 5, "14 CFR 61.109(a)(5)(i)"},
	{ReqCrossCountry, "Cross-country flight training", 3, "14 CFR 61.109(a)(1)"},
	{ReqNight, "Night flight training", 3, "14 CFR 61.109(a)(2)"},
	{ReqInstrument, "Flight training by reference to instruments", 3, "14 CFR 61.109(a)(3)"},
	{ReqTakeoffsLandings, "Takeoffs and landings to a full stop", 10, "14 CFR 61.109(a)(2)(ii)"},
	{ReqLongCrossCountry, "Solo cross-country flight of 150 NM total distance", 1, "14 CFR 61.109(a)(5)(ii)"},
	{ReqCheckride, "Practical test preparation within the preceding 2 months", 3, "14 CFR 61.109(a)(4)"},
}

// EnsureRequirementCatalog seeds the baseline private pilot catalog so a fresh
// database has something for enrollments to attach to. Existing rows win.
func EnsureRequirementCatalog(db *sqlx.DB) error {
	for _, seed := range privatePilotSeed {
		var exists bool
		if err := db.Get(&exists, `
SELECT EXISTS(SELECT 1 FROM faa_requirements WHERE certificate_type = $1 AND requirement_type = $2)
`, CertPrivatePilot, seed.requirementType); err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err := db.Exec(`
INSERT INTO faa_requirements (id, certificate_type, requirement_type, description, minimum_value, reference, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
`, uuid.NewString(), CertPrivatePilot, seed.requirementType, seed.description, seed.minimumValue, seed.reference, time.Now().UTC())
		if err != nil {
			return err
		}
	}
	return nil
}
