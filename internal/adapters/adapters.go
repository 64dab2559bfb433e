package adapters

import (
	"context"
	"countrypulse/internal/domain"
	"time"
)

type CountriesClient interface {
	GetCountries(ctx context.Context) ([]domain.SourceCountry, error)
}

type RatesClient interface {
	GetRates(ctx context.Context) (map[string]float64, error)
}

type CountryRepository interface {
	// UpsertBatch inserts or fully overwrites every record and touches the
	// refresh marker inside the same transaction. All-or-nothing.
	UpsertBatch(ctx context.Context, countries []domain.Country, refreshedAt time.Time) error
	List(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error)
	GetByName(ctx context.Context, name string) (domain.Country, error)
	DeleteByName(ctx context.Context, name string) error
	TopByEstimatedGDP(ctx context.Context, limit int) ([]domain.Country, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

type SummaryRenderer interface {
	Render(ctx context.Context, summary domain.Summary) ([]byte, error)
}

type SummaryCache interface {
	Get() ([]byte, bool)
	Set(png []byte)
	Invalidate()
}
