package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var roleCodes = []string{"ADMIN", "INSTRUCTOR", "STUDENT"}

func ValidRole(role string) bool {
	role = strings.ToUpper(role)
	for _, code := range roleCodes {
		if code == role {
			return true
		}
	}
	return false
}

func FetchRoles(db *sqlx.DB, userID string) ([]string, error) {
	roles := []string{}
	err := db.Select(&roles, `
SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role
`, userID)
	return roles, err
}

func HasRole(db *sqlx.DB, userID, role string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `
SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)
`, userID, strings.ToUpper(role))
	return exists, err
}

func AssignRole(db *sqlx.DB, userID, role string) error {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !ValidRole(role) {
		return ErrBadRequest("Unknown role")
	}
	exists, err := HasRole(db, userID, role)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = db.Exec(`
INSERT INTO user_roles (id, user_id, role, assigned_at) VALUES ($1,$2,$3,$4)
`, uuid.NewString(), userID, role, time.Now().UTC())
	return err
}

func RemoveRole(db *sqlx.DB, userID, role string) error {
	_, err := db.Exec(`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, strings.ToUpper(role))
	return err
}

func TouchLastSeen(db *sqlx.DB, userID string) error {
	_, err := db.Exec(`UPDATE users SET last_seen_at = $1 WHERE id = $2`, time.Now().UTC(), userID)
	return err
}

func SetLastLogin(db *sqlx.DB, userID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE users SET last_login_at = $1, last_seen_at = $1 WHERE id = $2`, now, userID)
	return err
}

func GetUserStatus(db *sqlx.DB, userID string) (string, error) {
	var status sql.NullString
	err := db.Get(&status, `SELECT status FROM users WHERE id = $1`, userID)
	if err != nil {
		return "", err
	}
	if status.Valid {
		return status.String, nil
	}
	return "", nil
}
