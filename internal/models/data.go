package models

import "time"

// Field names of the row-oriented source (CSV header)
const (
	FieldDatetime              = "datetime"
	FieldWaveSignificantHeight = "sea_surface_wave_significant_height"
	FieldAirTemperature        = "air_temperature_at_2m_above_ground_level"
	FieldWindDirection         = "wind_from_direction_at_10m_above_ground_level"
	FieldWindSpeed             = "wind_speed_at_10m_above_ground_level"
)

// Field names of the map-oriented source (JSON value objects)
const (
	FieldWaveDirection     = "sea_surface_wave_from_direction_at_variance_spectral_density_maximum"
	FieldWaterSpeed        = "surface_sea_water_speed"
	FieldWaveMaximumHeight = "sea_surface_wave_maximum_height"
)

// Sentinels used to mark a missing reading.
const (
	// PlotSentinel is used by single-source plotting views.
	PlotSentinel float64 = 0
	// AggregateSentinel keeps "missing" distinguishable from a real zero.
	AggregateSentinel float64 = -1
)

// RowFields lists the numeric fields of the row source in header order.
var RowFields = []string{
	FieldWaveSignificantHeight,
	FieldAirTemperature,
	FieldWindDirection,
	FieldWindSpeed,
}

// MapFields lists the optional numeric fields of the map source.
var MapFields = []string{
	FieldWaveDirection,
	FieldWaterSpeed,
	FieldWaveMaximumHeight,
}

// Epoch is the fallback time for timestamps that fail to parse.
var Epoch = time.Unix(0, 0).UTC()

// Defaults maps a field name to the value substituted when that field is missing.
// A field without an entry defaults to 0.
type Defaults map[string]float64

// UniformDefaults returns Defaults assigning the same sentinel to every field given.
func UniformDefaults(sentinel float64, fields ...string) Defaults {
	d := make(Defaults, len(fields))
	for _, f := range fields {
		d[f] = sentinel
	}
	return d
}

// For returns the default for field.
func (d Defaults) For(field string) float64 {
	return d[field]
}

// With returns a copy of d with the entries of other layered on top.
func (d Defaults) With(other Defaults) Defaults {
	out := make(Defaults, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// RawRowRecord is one row of the row-oriented source after numeric coercion
type RawRowRecord struct {
	Datetime              string    `json:"datetime"`
	Time                  time.Time `json:"time"`
	WaveSignificantHeight float64   `json:"sea_surface_wave_significant_height"`
	AirTemperature        float64   `json:"air_temperature_at_2m_above_ground_level"`
	WindDirection         float64   `json:"wind_from_direction_at_10m_above_ground_level"`
	WindSpeed             float64   `json:"wind_speed_at_10m_above_ground_level"`
}

// Value returns the numeric field named field.
func (r RawRowRecord) Value(field string) (float64, bool) {
	switch field {
	case FieldWaveSignificantHeight:
		return r.WaveSignificantHeight, true
	case FieldAirTemperature:
		return r.AirTemperature, true
	case FieldWindDirection:
		return r.WindDirection, true
	case FieldWindSpeed:
		return r.WindSpeed, true
	}
	return 0, false
}

// SetValue assigns the numeric field named field. It reports false for unknown fields.
func (r *RawRowRecord) SetValue(field string, v float64) bool {
	switch field {
	case FieldWaveSignificantHeight:
		r.WaveSignificantHeight = v
	case FieldAirTemperature:
		r.AirTemperature = v
	case FieldWindDirection:
		r.WindDirection = v
	case FieldWindSpeed:
		r.WindSpeed = v
	default:
		return false
	}
	return true
}

// RawMapRecord is one entry of the map-oriented source. Datetime is the
// original object key and is not parsed at load time.
type RawMapRecord struct {
	Datetime          string  `json:"datetime"`
	WaveDirection     float64 `json:"sea_surface_wave_from_direction_at_variance_spectral_density_maximum"`
	WaterSpeed        float64 `json:"surface_sea_water_speed"`
	WaveMaximumHeight float64 `json:"sea_surface_wave_maximum_height"`
}

// Value returns the numeric field named field.
func (r RawMapRecord) Value(field string) (float64, bool) {
	switch field {
	case FieldWaveDirection:
		return r.WaveDirection, true
	case FieldWaterSpeed:
		return r.WaterSpeed, true
	case FieldWaveMaximumHeight:
		return r.WaveMaximumHeight, true
	}
	return 0, false
}

// SetValue assigns the numeric field named field. It reports false for unknown fields.
func (r *RawMapRecord) SetValue(field string, v float64) bool {
	switch field {
	case FieldWaveDirection:
		r.WaveDirection = v
	case FieldWaterSpeed:
		r.WaterSpeed = v
	case FieldWaveMaximumHeight:
		r.WaveMaximumHeight = v
	default:
		return false
	}
	return true
}

// NormalizedRecord is the merged view of both sources for one timestamp
type NormalizedRecord struct {
	// Datetime is the raw join key as it appeared in the source(s).
	Datetime string    `json:"datetime"`
	Time     time.Time `json:"time"`
	InRows   bool      `json:"in_rows"`
	InMap    bool      `json:"in_map"`

	WaveSignificantHeight float64 `json:"sea_surface_wave_significant_height"`
	AirTemperature        float64 `json:"air_temperature_at_2m_above_ground_level"`
	WindDirection         float64 `json:"wind_from_direction_at_10m_above_ground_level"`
	WindSpeed             float64 `json:"wind_speed_at_10m_above_ground_level"`

	WaveDirection     float64 `json:"sea_surface_wave_from_direction_at_variance_spectral_density_maximum"`
	WaterSpeed        float64 `json:"surface_sea_water_speed"`
	WaveMaximumHeight float64 `json:"sea_surface_wave_maximum_height"`
}

// Value returns the numeric field named field from either source.
func (r NormalizedRecord) Value(field string) (float64, bool) {
	switch field {
	case FieldWaveSignificantHeight:
		return r.WaveSignificantHeight, true
	case FieldAirTemperature:
		return r.AirTemperature, true
	case FieldWindDirection:
		return r.WindDirection, true
	case FieldWindSpeed:
		return r.WindSpeed, true
	case FieldWaveDirection:
		return r.WaveDirection, true
	case FieldWaterSpeed:
		return r.WaterSpeed, true
	case FieldWaveMaximumHeight:
		return r.WaveMaximumHeight, true
	}
	return 0, false
}

// SetValue assigns the numeric field named field. It reports false for unknown fields.
func (r *NormalizedRecord) SetValue(field string, v float64) bool {
	switch field {
	case FieldWaveSignificantHeight:
		r.WaveSignificantHeight = v
	case FieldAirTemperature:
		r.AirTemperature = v
	case FieldWindDirection:
		r.WindDirection = v
	case FieldWindSpeed:
		r.WindSpeed = v
	case FieldWaveDirection:
		r.WaveDirection = v
	case FieldWaterSpeed:
		r.WaterSpeed = v
	case FieldWaveMaximumHeight:
		r.WaveMaximumHeight = v
	default:
		return false
	}
	return true
}

// Observation is a single (timestamp, metric, value) point of a plotted series
type Observation struct {
	Time  time.Time `json:"datetime"`
	Name  string    `json:"name"`
	Value float64   `json:"value"`
}

// AggregatedRecord is the wide per-timestamp record of the wave height view
type AggregatedRecord struct {
	Time              time.Time `json:"datetime"`
	SignificantHeight float64   `json:"sea_surface_wave_significant_height"`
	MaximumHeight     float64   `json:"sea_surface_wave_maximum_height"`
}

// Metric binds a series name to the record field it is read from.
type Metric struct {
	Name  string `json:"name" yaml:"name"`
	Field string `json:"field" yaml:"field"`
}

// LoadStats counts what was recovered locally while parsing a source.
type LoadStats struct {
	Records             int `json:"records" yaml:"records"`
	MalformedFields     int `json:"malformed_fields" yaml:"malformed_fields"`
	MalformedTimestamps int `json:"malformed_timestamps" yaml:"malformed_timestamps"`
	DuplicateKeys       int `json:"duplicate_keys" yaml:"duplicate_keys"`
}

// RowSource is a parsed row-oriented source
type RowSource struct {
	URI     string         `json:"uri"`
	Records []RawRowRecord `json:"records"`
	Stats   LoadStats      `json:"stats"`
	// Body is the fetched document the records were parsed from.
	Body []byte `json:"-"`
}

// MapSource is a parsed map-oriented source
type MapSource struct {
	URI      string         `json:"uri"`
	Sentinel float64        `json:"sentinel"`
	Records  []RawMapRecord `json:"records"`
	Stats    LoadStats      `json:"stats"`
	Body     []byte         `json:"-"`
}

// SourceData holds the raw bodies of both sources for one render cycle.
// Views re-parse the bodies with their own defaults.
type SourceData struct {
	RowURI  string    `json:"row_uri"`
	MapURI  string    `json:"map_uri"`
	RowBody []byte    `json:"-"`
	MapBody []byte    `json:"-"`
	Fetched time.Time `json:"fetched"`
}
