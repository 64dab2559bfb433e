package handler

import (
	"countrypulse/internal/domain"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type RefreshResponse struct {
	Message   string    `json:"message" example:"refresh completed"`
	Timestamp time.Time `json:"timestamp" example:"2025-06-01T12:00:00Z"`
}

type refreshErrorResponse struct {
	Error         string   `json:"error"`
	FailedSources []string `json:"failed_sources"`
}

// Refresh godoc
// @Summary Refresh the country dataset
// @Description Fetch countries and exchange rates from the upstream sources, recompute estimated GDP and overwrite the stored dataset
// @Tags Countries
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 503 {object} refreshErrorResponse "one or both upstream sources failed"
// @Failure 500 {object} errorResponse
// @Router /countries/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshedAt, err := h.service.Refresh(r.Context())
	if err != nil {
		var upstreamErr *domain.UpstreamError
		if errors.As(err, &upstreamErr) {
			logrus.WithError(err).WithField("handler", "Refresh").Warn("refresh aborted, upstream unavailable")
			writeJSON(w, http.StatusServiceUnavailable, refreshErrorResponse{
				Error:         "upstream sources unavailable",
				FailedSources: upstreamErr.FailedSources(),
			})
			return
		}
		msg := "ups, couldn't refresh countries this time"
		logrus.WithError(err).WithField("handler", "Refresh").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		Message:   "refresh completed",
		Timestamp: refreshedAt,
	})
}
