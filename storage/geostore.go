// Geo dataset queries backing the agent's lookup tools.
//
// Information Hiding:
// - SQL construction and metric-name normalization internalized
// - Callers see typed records, never rows

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// GeoQuerier answers the two lookups the agent's tools need. Split out so
// tools can be tested against a fake without a database.
type GeoQuerier interface {
	LookupCity(ctx context.Context, city, state string) (*CityRecord, error)
	LookupValues(ctx context.Context, geokey string, types []string) ([]ValueRecord, error)
}

// GeoStore queries the place and metric tables over a pooled connection.
type GeoStore struct {
	sb     sq.StatementBuilderType
	logger *zap.Logger
}

var _ GeoQuerier = (*GeoStore)(nil)

// NewGeoStore creates a store over db, which may be a pooled Postgres
// handle or a test double.
func NewGeoStore(db sq.BaseRunner) *GeoStore {
	return &GeoStore{
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db),
		logger: zap.NewNop(),
	}
}

// WithLogger attaches a logger for query diagnostics.
func (s *GeoStore) WithLogger(logger *zap.Logger) *GeoStore {
	s.logger = logger
	return s
}

// LookupCity resolves a city name and two-letter state code to its
// geographic keys. When several source tables carry the same place, the
// most populous entry from the first source table wins. Returns (nil, nil)
// when nothing matches.
func (s *GeoStore) LookupCity(ctx context.Context, city, state string) (*CityRecord, error) {
	query := s.sb.
		Select(
			"city",
			"city_geokey",
			"county",
			"county_geokey",
			"state",
			"state_geokey",
			"longitude",
			"latitude",
			"source_table",
		).
		From("geo_place_view_alt").
		Where(sq.Expr("LOWER(city) = LOWER(?)", city)).
		Where(sq.Eq{"state": state}).
		OrderBy("source_table", "population DESC NULLS LAST").
		Limit(1)

	row := query.QueryRowContext(ctx)

	var rec CityRecord
	var longitude, latitude sql.NullFloat64
	err := row.Scan(
		&rec.City,
		&rec.CityGeokey,
		&rec.County,
		&rec.CountyGeokey,
		&rec.State,
		&rec.StateGeokey,
		&longitude,
		&latitude,
		&rec.SourceTable,
	)
	if err == sql.ErrNoRows {
		s.logger.Debug("city lookup matched nothing",
			zap.String("city", city),
			zap.String("state", state))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup city %q, %q: %w", city, state, err)
	}

	if longitude.Valid {
		rec.Longitude = &longitude.Float64
	}
	if latitude.Valid {
		rec.Latitude = &latitude.Float64
	}

	return &rec, nil
}

// LookupValues fetches the latest value of each requested metric for a
// geographic key. Metric names are matched case-insensitively against the
// five-year ACS series; the stored "5Yr" suffix is stripped from the
// returned type names. An empty slice means no metrics matched.
func (s *GeoStore) LookupValues(ctx context.Context, geokey string, types []string) ([]ValueRecord, error) {
	if len(types) == 0 {
		return nil, nil
	}

	query := s.sb.
		Select(
			"geokey",
			"REPLACE(type, '5Yr', '') AS type",
			"date::text AS date",
			"value",
		).
		Options("DISTINCT ON (geokey, type)").
		From("geo_data_p").
		Where(sq.Eq{"geokey": geokey}).
		Where(sq.Expr("LOWER(type) = ANY(?)", normalizeMetricTypes(types))).
		OrderBy("geokey", "type", "date DESC")

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup values for %q: %w", geokey, err)
	}
	defer rows.Close()

	var records []ValueRecord
	for rows.Next() {
		var rec ValueRecord
		if err := rows.Scan(&rec.Geokey, &rec.Type, &rec.Date, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan value row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate value rows: %w", err)
	}

	return records, nil
}

// normalizeMetricTypes lowercases the requested metric names and appends
// the stored five-year-series suffix, so the model can ask for "Population"
// and still hit "population5yr".
func normalizeMetricTypes(types []string) []string {
	normalized := make([]string, len(types))
	for i, t := range types {
		normalized[i] = strings.ToLower(strings.TrimSpace(t)) + "5yr"
	}
	return normalized
}
