// Package storage provides access to the geographic/demographic dataset
// and the exchange audit log.
package storage

// CityRecord resolves a city/state pair to its geographic keys.
// JSON field names match the wire shape fed back to the model.
type CityRecord struct {
	City         string   `json:"city"`
	CityGeokey   string   `json:"city_geokey"`
	County       string   `json:"county"`
	CountyGeokey string   `json:"county_geokey"`
	State        string   `json:"state"`
	StateGeokey  string   `json:"state_geokey"`
	Longitude    *float64 `json:"longitude"`
	Latitude     *float64 `json:"latitude"`
	SourceTable  string   `json:"source_table"`
}

// ValueRecord is the most recent recorded value of one metric for one
// geographic key. Date is rendered as text by the query.
type ValueRecord struct {
	Geokey string  `json:"geokey"`
	Type   string  `json:"type"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
}
