package handler

import (
	"countrypulse/internal/domain"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// GetByName godoc
// @Summary Get a country by name
// @Description Name matching is case-insensitive
// @Tags Countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} CountryResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /countries/{name} [get]
func (h *Handler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "country name is required")
		return
	}

	country, err := h.service.GetByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			writeError(w, http.StatusNotFound, "country not found")
			return
		}
		msg := "ups, couldn't get country by name this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetByName", "name": name}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, toCountryResponse(country))
}
