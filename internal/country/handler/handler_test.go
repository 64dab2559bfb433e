package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"countrypulse/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) Refresh(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).(time.Time)
	return ts, args.Error(1)
}

func (m *MockService) List(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	args := m.Called(ctx, filter)
	countries, _ := args.Get(0).([]domain.Country)
	return countries, args.Error(1)
}

func (m *MockService) GetByName(ctx context.Context, name string) (domain.Country, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(domain.Country)
	return c, args.Error(1)
}

func (m *MockService) DeleteByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockService) Stats(ctx context.Context) (domain.Stats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(domain.Stats)
	return s, args.Error(1)
}

func (m *MockService) SummaryImage(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

type errorJSON struct {
	Error string `json:"error"`
}

func withNameParam(req *http.Request, name string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- Refresh ---

func TestHandler_Refresh_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	refreshedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockService.On("Refresh", mock.Anything).Return(refreshedAt, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/countries/refresh", nil)
	rr := httptest.NewRecorder()

	h.Refresh(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var res RefreshResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "refresh completed", res.Message)
	require.True(t, res.Timestamp.Equal(refreshedAt))
	mockService.AssertExpectations(t)
}

func TestHandler_Refresh_UpstreamUnavailable(t *testing.T) {
	cases := []struct {
		name        string
		upstreamErr *domain.UpstreamError
		wantSources []string
	}{
		{name: "countries failed", upstreamErr: &domain.UpstreamError{Countries: errors.New("dns")}, wantSources: []string{"countries"}},
		{name: "rates failed", upstreamErr: &domain.UpstreamError{Rates: errors.New("timeout")}, wantSources: []string{"rates"}},
		{name: "both failed", upstreamErr: &domain.UpstreamError{Countries: errors.New("dns"), Rates: errors.New("timeout")}, wantSources: []string{"countries", "rates"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockService)
			h := NewCountryHandler(mockService)

			mockService.On("Refresh", mock.Anything).Return(time.Time{}, tc.upstreamErr).Once()

			req := httptest.NewRequest(http.MethodPost, "/countries/refresh", nil)
			rr := httptest.NewRecorder()

			h.Refresh(rr, req)

			require.Equal(t, http.StatusServiceUnavailable, rr.Code)
			var res refreshErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
			require.Equal(t, "upstream sources unavailable", res.Error)
			require.Equal(t, tc.wantSources, res.FailedSources)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_Refresh_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("Refresh", mock.Anything).Return(time.Time{}, errors.New("db down")).Once()

	req := httptest.NewRequest(http.MethodPost, "/countries/refresh", nil)
	rr := httptest.NewRecorder()

	h.Refresh(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "ups, couldn't refresh countries this time", ej.Error)
	mockService.AssertExpectations(t)
}

// --- List ---

func TestHandler_List_PassesFilters(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	wantFilter := domain.CountryFilter{Region: "Africa", Currency: "NGN", SortByGDPDesc: true}
	capital := "Abuja"
	mockService.On("List", mock.Anything, wantFilter).
		Return([]domain.Country{{Name: "Nigeria", Capital: &capital, Population: 5}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/countries?region=Africa&currency=NGN&sort=gdp_desc", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res []CountryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res, 1)
	require.Equal(t, "Nigeria", res[0].Name)
	require.Equal(t, "Abuja", *res[0].Capital)
	mockService.AssertExpectations(t)
}

func TestHandler_List_UnknownSortIgnored(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("List", mock.Anything, domain.CountryFilter{}).Return([]domain.Country{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/countries?sort=name_asc", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, "[]", rr.Body.String())
	mockService.AssertExpectations(t)
}

func TestHandler_List_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "ups, couldn't list countries this time", ej.Error)
	mockService.AssertExpectations(t)
}

// --- GetByName ---

func TestHandler_GetByName_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	rate := 1600.5
	code := "NGN"
	country := domain.Country{Name: "Nigeria", Population: 206139589, CurrencyCode: &code, ExchangeRate: &rate, EstimatedGDP: 42}
	mockService.On("GetByName", mock.Anything, "nigeria").Return(country, nil).Once()

	req := withNameParam(httptest.NewRequest(http.MethodGet, "/countries/nigeria", nil), "nigeria")
	rr := httptest.NewRecorder()

	h.GetByName(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res CountryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "Nigeria", res.Name)
	require.Equal(t, int64(206139589), res.Population)
	require.Equal(t, "NGN", *res.CurrencyCode)
	require.InDelta(t, 1600.5, *res.ExchangeRate, 1e-9)
	mockService.AssertExpectations(t)
}

func TestHandler_GetByName_NotFound(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("GetByName", mock.Anything, "Atlantis").Return(domain.Country{}, domain.ErrCountryNotFound).Once()

	req := withNameParam(httptest.NewRequest(http.MethodGet, "/countries/Atlantis", nil), "Atlantis")
	rr := httptest.NewRecorder()

	h.GetByName(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "country not found", ej.Error)
	mockService.AssertExpectations(t)
}

func TestHandler_GetByName_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("GetByName", mock.Anything, "Nigeria").Return(domain.Country{}, errors.New("db failed")).Once()

	req := withNameParam(httptest.NewRequest(http.MethodGet, "/countries/Nigeria", nil), "Nigeria")
	rr := httptest.NewRecorder()

	h.GetByName(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "ups, couldn't get country by name this time", ej.Error)
	mockService.AssertExpectations(t)
}

// --- DeleteByName ---

func TestHandler_DeleteByName_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("DeleteByName", mock.Anything, "NIGERIA").Return(nil).Once()

	req := withNameParam(httptest.NewRequest(http.MethodDelete, "/countries/NIGERIA", nil), "NIGERIA")
	rr := httptest.NewRecorder()

	h.DeleteByName(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res DeleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, "country deleted", res.Message)
	mockService.AssertExpectations(t)
}

func TestHandler_DeleteByName_NotFound(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("DeleteByName", mock.Anything, "Atlantis").Return(domain.ErrCountryNotFound).Once()

	req := withNameParam(httptest.NewRequest(http.MethodDelete, "/countries/Atlantis", nil), "Atlantis")
	rr := httptest.NewRecorder()

	h.DeleteByName(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "country not found", ej.Error)
	mockService.AssertExpectations(t)
}

// --- Status ---

func TestHandler_Status_BeforeFirstRefresh(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("Stats", mock.Anything).Return(domain.Stats{TotalCountries: 0, LastRefreshedAt: nil}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"total_countries":0,"last_refreshed_at":null}`, rr.Body.String())
	mockService.AssertExpectations(t)
}

func TestHandler_Status_AfterRefresh(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	refreshedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockService.On("Stats", mock.Anything).Return(domain.Stats{TotalCountries: 250, LastRefreshedAt: &refreshedAt}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Equal(t, int64(250), res.TotalCountries)
	require.NotNil(t, res.LastRefreshedAt)
	require.True(t, res.LastRefreshedAt.Equal(refreshedAt))
	mockService.AssertExpectations(t)
}

func TestHandler_Status_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("Stats", mock.Anything).Return(domain.Stats{}, errors.New("db failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()

	h.Status(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	mockService.AssertExpectations(t)
}

// --- SummaryImage ---

func TestHandler_SummaryImage_Success(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	png := []byte{0x89, 'P', 'N', 'G'}
	mockService.On("SummaryImage", mock.Anything).Return(png, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/countries/image", nil)
	rr := httptest.NewRecorder()

	h.SummaryImage(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	require.Equal(t, png, rr.Body.Bytes())
	mockService.AssertExpectations(t)
}

func TestHandler_SummaryImage_NeverRefreshed(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("SummaryImage", mock.Anything).Return(nil, domain.ErrNeverRefreshed).Once()

	req := httptest.NewRequest(http.MethodGet, "/countries/image", nil)
	rr := httptest.NewRecorder()

	h.SummaryImage(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var ej errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ej))
	require.Equal(t, "summary image not generated yet", ej.Error)
	mockService.AssertExpectations(t)
}

func TestHandler_SummaryImage_InternalError(t *testing.T) {
	mockService := new(MockService)
	h := NewCountryHandler(mockService)

	mockService.On("SummaryImage", mock.Anything).Return(nil, errors.New("render failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/countries/image", nil)
	rr := httptest.NewRecorder()

	h.SummaryImage(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	mockService.AssertExpectations(t)
}
