package domain

import "time"

// Country is a mirrored country record. Optional fields are pointers so the
// absence of a value survives the round trip through storage and JSON.
type Country struct {
	ID              int64
	Name            string
	Capital         *string
	Region          *string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    *float64
	EstimatedGDP    float64
	FlagURL         *string
	LastRefreshedAt time.Time
}

// SourceCountry is one entry of the upstream country directory before
// reconciliation with exchange rates.
type SourceCountry struct {
	Name          string
	Capital       string
	Region        string
	Population    int64
	FlagURL       string
	CurrencyCodes []string
}

// CountryFilter narrows List results. Zero values mean "no filter".
type CountryFilter struct {
	Region        string // case-insensitive substring match
	Currency      string // exact currency code match
	SortByGDPDesc bool
}

type Stats struct {
	TotalCountries  int64
	LastRefreshedAt *time.Time // nil until the first successful refresh
}

// Summary is the input of the rendered top-N overview.
type Summary struct {
	Top             []Country
	TotalCountries  int64
	LastRefreshedAt time.Time
}
