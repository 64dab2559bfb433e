package handler

import (
	"countrypulse/internal/domain"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// SummaryImage godoc
// @Summary Summary image
// @Description PNG overview of the top-5 countries by estimated GDP
// @Tags Countries
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} errorResponse "no refresh has happened yet"
// @Failure 500 {object} errorResponse
// @Router /countries/image [get]
func (h *Handler) SummaryImage(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.SummaryImage(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNeverRefreshed) {
			writeError(w, http.StatusNotFound, "summary image not generated yet")
			return
		}
		msg := "ups, couldn't render summary image this time"
		logrus.WithError(err).WithField("handler", "SummaryImage").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
