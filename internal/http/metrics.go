package httpapi

import (
	"net/http"

	"flightline-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

var metricsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	items, err := services.LatestMetrics(s.DB, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.MetricSample{"items": items})
}

// MetricsSocket upgrades to a websocket feed of live server samples. Browsers
// cannot set an Authorization header on websocket dials, so the access token
// rides in the query string.
func (s *Server) MetricsSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	token, claims, err := s.Tokens.ParseToken(tokenStr)
	if err != nil || !token.Valid || claims["typ"] != "access" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	roles := []string{}
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, raw := range rawRoles {
			if role, ok := raw.(string); ok {
				roles = append(roles, role)
			}
		}
	}
	if !hasRole(roles, "ADMIN") {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	conn, err := metricsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.MetricsHub.Add(conn)
	defer func() {
		s.MetricsHub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
