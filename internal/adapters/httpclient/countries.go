package httpclient

import (
	"context"
	"countrypulse/internal/domain"
	"encoding/json"
	"fmt"
	"net/http"
)

type CountriesClient struct {
	http    *http.Client
	baseURL string
}

type countryPayload struct {
	Name       string `json:"name"`
	Capital    string `json:"capital"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
	Flag       string `json:"flag"`
	Currencies []struct {
		Code string `json:"code"`
	} `json:"currencies"`
}

// GetCountries fetches the whole upstream country directory in one request.
func (c *CountriesClient) GetCountries(ctx context.Context) ([]domain.SourceCountry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create countries request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute countries request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d from countries api: %s", resp.StatusCode, resp.Status)
	}

	var payload []countryPayload
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode countries response: %w", err)
	}

	countries := make([]domain.SourceCountry, 0, len(payload))
	for _, p := range payload {
		sc := domain.SourceCountry{
			Name:       p.Name,
			Capital:    p.Capital,
			Region:     p.Region,
			Population: p.Population,
			FlagURL:    p.Flag,
		}
		for _, cur := range p.Currencies {
			if cur.Code != "" {
				sc.CurrencyCodes = append(sc.CurrencyCodes, cur.Code)
			}
		}
		countries = append(countries, sc)
	}
	return countries, nil
}

func NewCountriesClient(httpClient *http.Client, baseURL string) *CountriesClient {
	return &CountriesClient{http: httpClient, baseURL: baseURL}
}
