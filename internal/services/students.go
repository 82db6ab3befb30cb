package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StudentRequirementDetail struct {
	ID              string     `db:"id" json:"id"`
	StudentID       string     `db:"student_id" json:"studentId"`
	RequirementID   string     `db:"requirement_id" json:"requirementId"`
	CurrentValue    float64    `db:"current_value" json:"currentValue"`
	IsComplete      bool       `db:"is_complete" json:"isComplete"`
	CompletionDate  *time.Time `db:"completion_date" json:"completionDate"`
	VerifiedBy      *string    `db:"verified_by" json:"verifiedBy"`
	CertificateType string     `db:"certificate_type" json:"certificateType"`
	RequirementType string     `db:"requirement_type" json:"requirementType"`
	Description     string     `db:"description" json:"description"`
	MinimumValue    float64    `db:"minimum_value" json:"minimumValue"`
	Reference       string     `db:"reference" json:"reference"`
}

// InitializeStudentRequirements seeds a zero-progress row for every catalog
// requirement of the certificate track the student does not already have.
// Safe to call again on re-enrollment.
func InitializeStudentRequirements(db *sqlx.DB, studentID string, certificateType CertificateType) error {
	if !certificateType.Valid() {
		return ErrBadRequest("Unknown certificate type")
	}
	requirementIDs := []string{}
	if err := db.Select(&requirementIDs, `
SELECT id FROM faa_requirements WHERE certificate_type = $1
`, certificateType); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, requirementID := range requirementIDs {
		var exists bool
		if err := db.Get(&exists, `
SELECT EXISTS(SELECT 1 FROM student_requirements WHERE student_id = $1 AND requirement_id = $2)
`, studentID, requirementID); err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err := db.Exec(`
INSERT INTO student_requirements (id, student_id, requirement_id, current_value, is_complete, created_at, updated_at)
VALUES ($1,$2,$3,0,FALSE,$4,$4)
`, uuid.NewString(), studentID, requirementID, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetStudentRequirements lists a student's requirement rows joined with the
// catalog, optionally narrowed to one certificate track.
func GetStudentRequirements(db *sqlx.DB, studentID string, certificateType CertificateType) ([]StudentRequirementDetail, error) {
	if certificateType != "" && !certificateType.Valid() {
		return nil, ErrBadRequest("Unknown certificate type")
	}
	items := []StudentRequirementDetail{}
	if certificateType != "" {
		err := db.Select(&items, `
SELECT sr.id, sr.student_id, sr.requirement_id, sr.current_value, sr.is_complete,
       sr.completion_date, sr.verified_by,
       fr.certificate_type, fr.requirement_type, fr.description, fr.minimum_value, fr.reference
FROM student_requirements sr
JOIN faa_requirements fr ON fr.id = sr.requirement_id
WHERE sr.student_id = $1 AND fr.certificate_type = $2
ORDER BY fr.requirement_type
`, studentID, certificateType)
		return items, err
	}
	err := db.Select(&items, `
SELECT sr.id, sr.student_id, sr.requirement_id, sr.current_value, sr.is_complete,
       sr.completion_date, sr.verified_by,
       fr.certificate_type, fr.requirement_type, fr.description, fr.minimum_value, fr.reference
FROM student_requirements sr
JOIN faa_requirements fr ON fr.id = sr.requirement_id
WHERE sr.student_id = $1
ORDER BY fr.certificate_type, fr.requirement_type
`, studentID)
	return items, err
}

func GetStudentRequirementByID(db *sqlx.DB, id string) (*StudentRequirementDetail, error) {
	var item StudentRequirementDetail
	err := db.Get(&item, `
SELECT sr.id, sr.student_id, sr.requirement_id, sr.current_value, sr.is_complete,
       sr.completion_date, sr.verified_by,
       fr.certificate_type, fr.requirement_type, fr.description, fr.minimum_value, fr.reference
FROM student_requirements sr
JOIN faa_requirements fr ON fr.id = sr.requirement_id
WHERE sr.id = $1
`, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// VerifyStudentRequirement records the instructor sign-off. Only complete
// requirements can be verified.
func VerifyStudentRequirement(db *sqlx.DB, id, instructorID string) error {
	item, err := GetStudentRequirementByID(db, id)
	if err != nil {
		return ErrNotFound("Requirement not found")
	}
	if !item.IsComplete {
		return ErrBadRequest("Requirement is not complete")
	}
	_, err = db.Exec(`
UPDATE student_requirements SET verified_by = $2, updated_at = $3 WHERE id = $1
`, id, instructorID, time.Now().UTC())
	return err
}

type CertificateProgress struct {
	TotalRequirements     int                        `json:"totalRequirements"`
	CompletedRequirements int                        `json:"completedRequirements"`
	ProgressPercentage    float64                    `json:"progressPercentage"`
	Requirements          []StudentRequirementDetail `json:"requirements"`
}

func GetStudentCertificateProgress(db *sqlx.DB, studentID string, certificateType CertificateType) (*CertificateProgress, error) {
	requirements, err := GetStudentRequirements(db, studentID, certificateType)
	if err != nil {
		return nil, err
	}
	progress := &CertificateProgress{Requirements: requirements}
	progress.TotalRequirements = len(requirements)
	for _, requirement := range requirements {
		if requirement.IsComplete {
			progress.CompletedRequirements++
		}
	}
	if progress.TotalRequirements > 0 {
		progress.ProgressPercentage = float64(progress.CompletedRequirements) / float64(progress.TotalRequirements) * 100
	}
	return progress, nil
}
