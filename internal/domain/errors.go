package domain

import (
	"errors"
	"strings"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrNeverRefreshed  = errors.New("dataset was never refreshed")
)

// UpstreamError reports which upstream sources failed during a refresh.
// Both fetches always complete before the error is built, so a caller can
// name every failed source, not just the first one.
type UpstreamError struct {
	Countries error
	Rates     error
}

func (e *UpstreamError) Error() string {
	parts := make([]string, 0, 2)
	if e.Countries != nil {
		parts = append(parts, "countries: "+e.Countries.Error())
	}
	if e.Rates != nil {
		parts = append(parts, "rates: "+e.Rates.Error())
	}
	return "upstream unavailable: " + strings.Join(parts, "; ")
}

// FailedSources lists the names of the sources that failed.
func (e *UpstreamError) FailedSources() []string {
	sources := make([]string, 0, 2)
	if e.Countries != nil {
		sources = append(sources, "countries")
	}
	if e.Rates != nil {
		sources = append(sources, "rates")
	}
	return sources
}
