package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	dashboardsvc "chartitze/internal/services/dashboard"
)

func DashboardSummary(svc *dashboardsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("dashboard summary failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "dashboard": s})
	}
}
