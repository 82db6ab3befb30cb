package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type AdminUserRow struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	Status      string     `json:"status"`
	Roles       []string   `json:"roles"`
	CreatedAt   *time.Time `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	LastSeenAt  *time.Time `json:"lastSeenAt"`
}

type AdminUsersResponse struct {
	Items    []AdminUserRow `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := parseInt(r.URL.Query().Get("page"), 1)
	pageSize := parseInt(r.URL.Query().Get("pageSize"), 25)
	if pageSize > 100 {
		pageSize = 100
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	args := []interface{}{}
	where := ""
	if search != "" {
		where = "WHERE lower(email) LIKE $1"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	var total int
	if err := s.DB.Get(&total, "SELECT count(*) FROM users "+where, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	offset := (page - 1) * pageSize
	query := `
SELECT id, email, first_name, last_name, status, created_at, last_login_at, last_seen_at
FROM users
` + where + `
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d`
	args = append(args, pageSize, offset)
	query = fmt.Sprintf(query, len(args)-1, len(args))
	rows := []struct {
		ID        string     `db:"id"`
		Email     string     `db:"email"`
		FirstName *string    `db:"first_name"`
		LastName  *string    `db:"last_name"`
		Status    string     `db:"status"`
		CreatedAt *time.Time `db:"created_at"`
		LastLogin *time.Time `db:"last_login_at"`
		LastSeen  *time.Time `db:"last_seen_at"`
	}{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AdminUserRow, 0, len(rows))
	for _, row := range rows {
		roles, _ := services.FetchRoles(s.DB, row.ID)
		items = append(items, AdminUserRow{
			ID:          row.ID,
			Email:       row.Email,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Status:      row.Status,
			Roles:       roles,
			CreatedAt:   row.CreatedAt,
			LastLoginAt: row.LastLogin,
			LastSeenAt:  row.LastSeen,
		})
	}
	WriteJSON(w, http.StatusOK, AdminUsersResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

type RoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.AssignRole(s.DB, userID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RemoveRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	role := chi.URLParam(r, "role")
	if err := services.RemoveRole(s.DB, userID, role); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
