package storage

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textArrayConverter renders string slices the way the pgx driver would bind
// a text[] parameter, so mocked queries can match on them.
type textArrayConverter struct{}

func (textArrayConverter) ConvertValue(v interface{}) (driver.Value, error) {
	if ss, ok := v.([]string); ok {
		return "{" + strings.Join(ss, ",") + "}", nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMockStore(t *testing.T) (*GeoStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(textArrayConverter{}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGeoStore(db), mock
}

func TestLookupCityFound(t *testing.T) {
	store, mock := newMockStore(t)

	longitude, latitude := -122.143, 37.4419
	rows := sqlmock.NewRows([]string{
		"city", "city_geokey", "county", "county_geokey",
		"state", "state_geokey", "longitude", "latitude", "source_table",
	}).AddRow("Palo Alto", "0655282", "Santa Clara", "06085", "CA", "06", longitude, latitude, "places")

	mock.ExpectQuery(`SELECT city, city_geokey, .+ FROM geo_place_view_alt WHERE LOWER\(city\) = LOWER\(\$1\) AND state = \$2 ORDER BY source_table, population DESC NULLS LAST LIMIT 1`).
		WithArgs("palo alto", "CA").
		WillReturnRows(rows)

	rec, err := store.LookupCity(context.Background(), "palo alto", "CA")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Palo Alto", rec.City)
	assert.Equal(t, "0655282", rec.CityGeokey)
	assert.Equal(t, "06085", rec.CountyGeokey)
	assert.Equal(t, "06", rec.StateGeokey)
	require.NotNil(t, rec.Longitude)
	assert.InDelta(t, longitude, *rec.Longitude, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupCityNoMatchReturnsNilNotError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT city, city_geokey, .+ FROM geo_place_view_alt`).
		WithArgs("Atlantis", "FL").
		WillReturnRows(sqlmock.NewRows([]string{
			"city", "city_geokey", "county", "county_geokey",
			"state", "state_geokey", "longitude", "latitude", "source_table",
		}))

	rec, err := store.LookupCity(context.Background(), "Atlantis", "FL")
	require.NoError(t, err)
	assert.Nil(t, rec)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupCityNullCoordinates(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"city", "city_geokey", "county", "county_geokey",
		"state", "state_geokey", "longitude", "latitude", "source_table",
	}).AddRow("Nome", "0254920", "Nome", "02180", "AK", "02", nil, nil, "places")

	mock.ExpectQuery(`FROM geo_place_view_alt`).
		WithArgs("Nome", "AK").
		WillReturnRows(rows)

	rec, err := store.LookupCity(context.Background(), "Nome", "AK")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.Longitude)
	assert.Nil(t, rec.Latitude)
}

func TestLookupValuesNormalizesTypes(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"geokey", "type", "date", "value"}).
		AddRow("0655282", "MedianIncome", "2023-01-01", 158271.0).
		AddRow("0655282", "Population", "2023-01-01", 68572.0)

	mock.ExpectQuery(`SELECT DISTINCT ON \(geokey, type\) geokey, REPLACE\(type, '5Yr', ''\) AS type, date::text AS date, value FROM geo_data_p WHERE geokey = \$1 AND LOWER\(type\) = ANY\(\$2\) ORDER BY geokey, type, date DESC`).
		WithArgs("0655282", []string{"population5yr", "medianincome5yr"}).
		WillReturnRows(rows)

	records, err := store.LookupValues(context.Background(), "0655282", []string{"Population", " MedianIncome "})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "MedianIncome", records[0].Type)
	assert.Equal(t, "2023-01-01", records[0].Date)
	assert.InDelta(t, 158271.0, records[0].Value, 1e-9)
	assert.Equal(t, "Population", records[1].Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookupValuesEmptyTypeList(t *testing.T) {
	store, _ := newMockStore(t)

	records, err := store.LookupValues(context.Background(), "0655282", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLookupValuesQueryError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM geo_data_p`).
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := store.LookupValues(context.Background(), "0655282", []string{"Population"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup values")
}
