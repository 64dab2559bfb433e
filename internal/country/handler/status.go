package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type StatusResponse struct {
	TotalCountries  int64      `json:"total_countries" example:"250"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at" example:"2025-06-01T12:00:00Z"`
}

// Status godoc
// @Summary Dataset status
// @Description Total stored countries and the last successful refresh time (null before the first refresh)
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} errorResponse
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		msg := "ups, couldn't get status this time"
		logrus.WithError(err).WithField("handler", "Status").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		TotalCountries:  stats.TotalCountries,
		LastRefreshedAt: stats.LastRefreshedAt,
	})
}
