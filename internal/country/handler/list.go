package handler

import (
	"countrypulse/internal/domain"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// List godoc
// @Summary List countries
// @Description List stored countries with optional filters
// @Tags Countries
// @Produce json
// @Param region query string false "case-insensitive region substring"
// @Param currency query string false "exact currency code"
// @Param sort query string false "gdp_desc to order by estimated GDP descending"
// @Success 200 {array} CountryResponse
// @Failure 500 {object} errorResponse
// @Router /countries [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.CountryFilter{
		Region:        strings.TrimSpace(query.Get("region")),
		Currency:      strings.TrimSpace(query.Get("currency")),
		SortByGDPDesc: query.Get("sort") == "gdp_desc",
	}

	countries, err := h.service.List(r.Context(), filter)
	if err != nil {
		msg := "ups, couldn't list countries this time"
		logrus.WithError(err).WithField("handler", "List").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	res := make([]CountryResponse, 0, len(countries))
	for _, c := range countries {
		res = append(res, toCountryResponse(c))
	}
	writeJSON(w, http.StatusOK, res)
}
