package postgres

import (
	"context"
	"countrypulse/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CountryRepository struct {
	pool *pgxpool.Pool
}

const countryColumns = `id, name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

type batchRow struct {
	Name         string   `json:"name"`
	Capital      *string  `json:"capital"`
	Region       *string  `json:"region"`
	Population   int64    `json:"population"`
	CurrencyCode *string  `json:"currency_code"`
	ExchangeRate *float64 `json:"exchange_rate"`
	EstimatedGDP float64  `json:"estimated_gdp"`
	FlagURL      *string  `json:"flag_url"`
}

// UpsertBatch applies the whole refresh result in one transaction: every
// record is inserted or fully overwritten by name, and the refresh marker is
// touched last. Any failure rolls the entire batch back.
func (r *CountryRepository) UpsertBatch(ctx context.Context, countries []domain.Country, refreshedAt time.Time) error {
	payload := make([]batchRow, 0, len(countries))
	for _, c := range countries {
		payload = append(payload, batchRow{
			Name:         c.Name,
			Capital:      c.Capital,
			Region:       c.Region,
			Population:   c.Population,
			CurrencyCode: c.CurrencyCode,
			ExchangeRate: c.ExchangeRate,
			EstimatedGDP: c.EstimatedGDP,
			FlagURL:      c.FlagURL,
		})
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal country batch: %w", err)
	}

	const upsertQ = `
		with input_rows as (
		  select * from json_to_recordset($1::json) as r(
		    name text, capital text, region text, population bigint,
		    currency_code text, exchange_rate double precision,
		    estimated_gdp double precision, flag_url text
		  )
		)
		insert into countries (name, capital, region, population, currency_code,
		                       exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
		select ir.name, ir.capital, ir.region, ir.population, ir.currency_code,
		       ir.exchange_rate, ir.estimated_gdp, ir.flag_url, $2
		from input_rows ir
		on conflict (name) do update set
		  capital = excluded.capital,
		  region = excluded.region,
		  population = excluded.population,
		  currency_code = excluded.currency_code,
		  exchange_rate = excluded.exchange_rate,
		  estimated_gdp = excluded.estimated_gdp,
		  flag_url = excluded.flag_url,
		  last_refreshed_at = excluded.last_refreshed_at;
	`

	const markerQ = `
		insert into refresh_marker (id, last_refreshed_at) values (1, $1)
		on conflict (id) do update set last_refreshed_at = excluded.last_refreshed_at;
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if len(payload) > 0 {
		if _, err = tx.Exec(ctx, upsertQ, json.RawMessage(payloadJSON), refreshedAt); err != nil {
			return fmt.Errorf("failed to upsert country batch: %w", err)
		}
	}
	if _, err = tx.Exec(ctx, markerQ, refreshedAt); err != nil {
		return fmt.Errorf("failed to touch refresh marker: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *CountryRepository) List(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	q := `select ` + countryColumns + ` from countries`

	var conds []string
	var args []any
	if filter.Region != "" {
		args = append(args, "%"+filter.Region+"%")
		conds = append(conds, fmt.Sprintf("region ilike $%d", len(args)))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		conds = append(conds, fmt.Sprintf("currency_code = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " where " + strings.Join(conds, " and ")
	}
	if filter.SortByGDPDesc {
		q += " order by estimated_gdp desc"
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

func (r *CountryRepository) GetByName(ctx context.Context, name string) (domain.Country, error) {
	q := `select ` + countryColumns + ` from countries where lower(name) = lower($1) limit 1`

	var c domain.Country
	if err := r.pool.QueryRow(ctx, q, name).Scan(
		&c.ID, &c.Name, &c.Capital, &c.Region, &c.Population,
		&c.CurrencyCode, &c.ExchangeRate, &c.EstimatedGDP, &c.FlagURL, &c.LastRefreshedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("failed to select country %q: %w", name, err)
	}
	return c, nil
}

// DeleteByName removes exactly one record matched case-insensitively.
func (r *CountryRepository) DeleteByName(ctx context.Context, name string) error {
	const q = `
		delete from countries
		where id = (select id from countries where lower(name) = lower($1) limit 1);
	`

	tag, err := r.pool.Exec(ctx, q, name)
	if err != nil {
		return fmt.Errorf("failed to delete country %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCountryNotFound
	}
	return nil
}

func (r *CountryRepository) TopByEstimatedGDP(ctx context.Context, limit int) ([]domain.Country, error) {
	q := `select ` + countryColumns + ` from countries order by estimated_gdp desc limit $1`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top countries: %w", err)
	}
	defer rows.Close()

	return scanCountries(rows)
}

func (r *CountryRepository) Stats(ctx context.Context) (domain.Stats, error) {
	const q = `
		select (select count(*) from countries),
		       (select last_refreshed_at from refresh_marker where id = 1);
	`

	var s domain.Stats
	if err := r.pool.QueryRow(ctx, q).Scan(&s.TotalCountries, &s.LastRefreshedAt); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return s, nil
}

func scanCountries(rows pgx.Rows) ([]domain.Country, error) {
	countries := make([]domain.Country, 0, 64)
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Capital, &c.Region, &c.Population,
			&c.CurrencyCode, &c.ExchangeRate, &c.EstimatedGDP, &c.FlagURL, &c.LastRefreshedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating countries: %w", err)
	}
	return countries, nil
}

func NewCountryRepository(pool *pgxpool.Pool) *CountryRepository {
	return &CountryRepository{pool: pool}
}
