package country

import (
	"context"
	"countrypulse/internal/adapters"
	"countrypulse/internal/domain"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// topCountries is how many entries the summary image shows.
const topCountries = 5

type Service struct {
	countries adapters.CountriesClient
	rates     adapters.RatesClient
	repo      adapters.CountryRepository
	renderer  adapters.SummaryRenderer
	cache     adapters.SummaryCache

	intn func(int) int
	now  func() time.Time
}

// Refresh runs the whole pipeline: both upstream fetches concurrently,
// reconciliation, one transactional upsert, then summary cache invalidation.
// Either fetch failing aborts before any write; both failures are reported
// together. Concurrent Refresh calls are not serialized, the last
// transaction to commit wins.
func (s *Service) Refresh(ctx context.Context) (time.Time, error) {
	execID := uuid.NewString()
	logrus.Infof("Starting refresh; execID: %s", execID)

	var (
		wg       sync.WaitGroup
		sources  []domain.SourceCountry
		rates    map[string]float64
		srcErr   error
		ratesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sources, srcErr = s.countries.GetCountries(ctx)
	}()
	go func() {
		defer wg.Done()
		rates, ratesErr = s.rates.GetRates(ctx)
	}()
	wg.Wait()

	if srcErr != nil || ratesErr != nil {
		return time.Time{}, &domain.UpstreamError{Countries: srcErr, Rates: ratesErr}
	}

	records := reconcile(sources, rates, s.intn)

	refreshedAt := s.now().UTC()
	if err := s.repo.UpsertBatch(ctx, records, refreshedAt); err != nil {
		return time.Time{}, fmt.Errorf("failed to persist refresh batch: %w", err)
	}

	// the cached summary image is stale now
	s.cache.Invalidate()

	logrus.Infof("Refresh stored %d countries; execID: %s", len(records), execID)
	return refreshedAt, nil
}

func (s *Service) List(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.Country, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *Service) DeleteByName(ctx context.Context, name string) error {
	return s.repo.DeleteByName(ctx, name)
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}

// SummaryImage returns the rendered top-5 PNG, rendering on cache miss.
// Returns domain.ErrNeverRefreshed until the first successful refresh.
func (s *Service) SummaryImage(ctx context.Context) ([]byte, error) {
	if png, ok := s.cache.Get(); ok {
		return png, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.LastRefreshedAt == nil {
		return nil, domain.ErrNeverRefreshed
	}

	top, err := s.repo.TopByEstimatedGDP(ctx, topCountries)
	if err != nil {
		return nil, err
	}

	png, err := s.renderer.Render(ctx, domain.Summary{
		Top:             top,
		TotalCountries:  stats.TotalCountries,
		LastRefreshedAt: *stats.LastRefreshedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render summary: %w", err)
	}

	s.cache.Set(png)
	return png, nil
}

func NewService(
	countries adapters.CountriesClient,
	rates adapters.RatesClient,
	repo adapters.CountryRepository,
	renderer adapters.SummaryRenderer,
	cache adapters.SummaryCache,
) *Service {
	return &Service{
		countries: countries,
		rates:     rates,
		repo:      repo,
		renderer:  renderer,
		cache:     cache,
		intn:      rand.IntN,
		now:       time.Now,
	}
}
