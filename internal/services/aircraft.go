package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"flightline-backend-go/internal/models"
)

func ListAircraft(db *sqlx.DB) ([]models.Aircraft, error) {
	items := []models.Aircraft{}
	err := db.Select(&items, `SELECT * FROM aircraft ORDER BY tail_number`)
	return items, err
}

func CreateAircraft(db *sqlx.DB, tailNumber, aircraftMake, aircraftModel string) (string, error) {
	tailNumber = strings.ToUpper(strings.TrimSpace(tailNumber))
	if tailNumber == "" {
		return "", ErrBadRequest("Tail number is required")
	}
	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM aircraft WHERE tail_number = $1)`, tailNumber); err != nil {
		return "", err
	}
	if exists {
		return "", ErrConflict("Aircraft already registered")
	}
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO aircraft (id, tail_number, make, model, status, created_at)
VALUES ($1,$2,$3,$4,'ACTIVE',$5)
`, id, tailNumber, strings.TrimSpace(aircraftMake), strings.TrimSpace(aircraftModel), time.Now().UTC())
	return id, err
}

func RetireAircraft(db *sqlx.DB, id string) error {
	_, err := db.Exec(`UPDATE aircraft SET status = 'RETIRED' WHERE id = $1`, id)
	return err
}
