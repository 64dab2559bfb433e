package handler

import (
	"context"
	"countrypulse/internal/domain"
	"encoding/json"
	"net/http"
	"time"
)

type CountryService interface {
	Refresh(ctx context.Context) (time.Time, error)
	List(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error)
	GetByName(ctx context.Context, name string) (domain.Country, error)
	DeleteByName(ctx context.Context, name string) error
	Stats(ctx context.Context) (domain.Stats, error)
	SummaryImage(ctx context.Context) ([]byte, error)
}

type Handler struct {
	service CountryService
}

func NewCountryHandler(service CountryService) *Handler {
	return &Handler{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

type CountryResponse struct {
	Name            string    `json:"name" example:"Nigeria"`
	Capital         *string   `json:"capital" example:"Abuja"`
	Region          *string   `json:"region" example:"Africa"`
	Population      int64     `json:"population" example:"206139589"`
	CurrencyCode    *string   `json:"currency_code" example:"NGN"`
	ExchangeRate    *float64  `json:"exchange_rate" example:"1600.5"`
	EstimatedGDP    float64   `json:"estimated_gdp" example:"193212000000"`
	FlagURL         *string   `json:"flag_url" example:"https://flagcdn.com/ng.svg"`
	LastRefreshedAt time.Time `json:"last_refreshed_at" example:"2025-06-01T12:00:00Z"`
}

func toCountryResponse(c domain.Country) CountryResponse {
	return CountryResponse{
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt,
	}
}
