package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const (
	SignatureRoleStudent    = "student"
	SignatureRoleInstructor = "instructor"
)

func validSignatureRole(role string) bool {
	return role == SignatureRoleStudent || role == SignatureRoleInstructor
}

// AddSignature hashes the PIN and records a new current signature for the
// (entry, role, user) triple, retiring any previous one so at most one
// signature per triple is current.
func AddSignature(db *sqlx.DB, entryID, userID, role, pin string) error {
	if !validSignatureRole(role) {
		return ErrBadRequest("Unknown signature role")
	}
	if len(pin) < 4 {
		return ErrBadRequest("PIN must be at least 4 characters")
	}
	var status string
	if err := db.Get(&status, `SELECT status FROM flight_log_entries WHERE id = $1`, entryID); err != nil {
		return ErrNotFound("Flight log entry not found")
	}
	if status == StatusVoided {
		return ErrConflict("Voided entries cannot be signed")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), 10)
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
UPDATE flight_log_entry_signatures
SET is_current = FALSE
WHERE entry_id = $1 AND role = $2 AND user_id = $3
`, entryID, role, userID); err != nil {
		return err
	}
	_, err = tx.Exec(`
INSERT INTO flight_log_entry_signatures (id, entry_id, user_id, role, pin_hash, is_current, signed_at)
VALUES ($1,$2,$3,$4,$5,TRUE,$6)
`, uuid.NewString(), entryID, userID, role, string(hash), time.Now().UTC())
	if err != nil {
		return err
	}
	if err := LogAudit(tx, entryID, "signed_"+role, userID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// VerifySignature checks the PIN against the current signature for the
// triple. Fails closed: no current signature means false.
func VerifySignature(db *sqlx.DB, entryID, userID, role, pin string) bool {
	if !validSignatureRole(role) {
		return false
	}
	var pinHash string
	err := db.Get(&pinHash, `
SELECT pin_hash FROM flight_log_entry_signatures
WHERE entry_id = $1 AND user_id = $2 AND role = $3 AND is_current = TRUE
`, entryID, userID, role)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)) == nil
}

// InvalidateSignatures clears the current flag on an entry's signatures,
// optionally scoped to one role. Used to force re-signing after an edit.
func InvalidateSignatures(db *sqlx.DB, entryID, role string) error {
	if role != "" {
		if !validSignatureRole(role) {
			return ErrBadRequest("Unknown signature role")
		}
		_, err := db.Exec(`
UPDATE flight_log_entry_signatures SET is_current = FALSE WHERE entry_id = $1 AND role = $2
`, entryID, role)
		return err
	}
	_, err := db.Exec(`UPDATE flight_log_entry_signatures SET is_current = FALSE WHERE entry_id = $1`, entryID)
	return err
}
