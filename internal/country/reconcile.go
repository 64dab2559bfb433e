package country

import (
	"countrypulse/internal/domain"
)

// Multiplier bounds for the synthetic GDP estimate, inclusive.
const (
	multiplierMin = 1000
	multiplierMax = 2000
)

// reconcile joins the country directory with the USD rate table and computes
// the derived estimated GDP. intn behaves like rand.IntN; production passes
// a real randomness source, tests pin it.
//
// The estimate is population * m / rate with m uniform in
// [multiplierMin, multiplierMax], a synthetic proxy that is intentionally
// non-deterministic across refreshes. A country without a resolvable rate
// keeps ExchangeRate nil and EstimatedGDP 0.
func reconcile(sources []domain.SourceCountry, rates map[string]float64, intn func(int) int) []domain.Country {
	countries := make([]domain.Country, 0, len(sources))
	for _, src := range sources {
		c := domain.Country{
			Name:       src.Name,
			Population: src.Population,
		}
		if c.Population < 0 {
			c.Population = 0
		}
		if src.Capital != "" {
			c.Capital = &src.Capital
		}
		if src.Region != "" {
			c.Region = &src.Region
		}
		if src.FlagURL != "" {
			c.FlagURL = &src.FlagURL
		}

		if len(src.CurrencyCodes) > 0 {
			code := src.CurrencyCodes[0]
			c.CurrencyCode = &code

			// a non-positive quote is treated the same as an unquoted currency
			if rate, ok := rates[code]; ok && rate > 0 {
				c.ExchangeRate = &rate
				m := multiplierMin + intn(multiplierMax-multiplierMin+1)
				c.EstimatedGDP = float64(c.Population) * float64(m) / rate
			}
		}

		countries = append(countries, c)
	}
	return countries
}
