package httpapi

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type UserDTO struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   *string    `json:"firstName,omitempty"`
	LastName    *string    `json:"lastName,omitempty"`
	Status      string     `json:"status"`
	Role        string     `json:"role"`
	Roles       []string   `json:"roles"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func buildUserDTO(db *sqlx.DB, userID string) (*UserDTO, error) {
	row := struct {
		ID        string     `db:"id"`
		Email     string     `db:"email"`
		FirstName *string    `db:"first_name"`
		LastName  *string    `db:"last_name"`
		Status    string     `db:"status"`
		LastLogin *time.Time `db:"last_login_at"`
	}{}
	if err := db.Get(&row, `
SELECT id, email, first_name, last_name, status, last_login_at
FROM users
WHERE id = $1
`, userID); err != nil {
		return nil, err
	}
	roles := []string{}
	if err := db.Select(&roles, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID); err != nil {
		return nil, err
	}
	primary := "STUDENT"
	if len(roles) > 0 {
		primary = roles[0]
	}
	return &UserDTO{
		ID:          row.ID,
		Email:       row.Email,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Status:      row.Status,
		Role:        primary,
		Roles:       roles,
		LastLoginAt: row.LastLogin,
	}, nil
}
