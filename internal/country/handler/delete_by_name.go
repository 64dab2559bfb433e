package handler

import (
	"countrypulse/internal/domain"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type DeleteResponse struct {
	Message string `json:"message" example:"country deleted"`
}

// DeleteByName godoc
// @Summary Delete a country by name
// @Description Name matching is case-insensitive; exactly one record is removed
// @Tags Countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /countries/{name} [delete]
func (h *Handler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "country name is required")
		return
	}

	if err := h.service.DeleteByName(r.Context(), name); err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			writeError(w, http.StatusNotFound, "country not found")
			return
		}
		msg := "ups, couldn't delete country this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "DeleteByName", "name": name}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Message: "country deleted"})
}
