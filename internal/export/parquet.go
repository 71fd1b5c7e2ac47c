// Package export writes merged records and observations as Parquet tables.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"seastate/internal/models"
)

// RecordRow is one merged record in Parquet form. Datetime is the raw join
// key; TimestampMs is its parsed value.
type RecordRow struct {
	Datetime              string  `parquet:"datetime,zstd"`
	TimestampMs           int64   `parquet:"timestamp_ms"`
	InRows                bool    `parquet:"in_rows"`
	InMap                 bool    `parquet:"in_map"`
	WaveSignificantHeight float64 `parquet:"sea_surface_wave_significant_height"`
	AirTemperature        float64 `parquet:"air_temperature_at_2m_above_ground_level"`
	WindDirection         float64 `parquet:"wind_from_direction_at_10m_above_ground_level"`
	WindSpeed             float64 `parquet:"wind_speed_at_10m_above_ground_level"`
	WaveDirection         float64 `parquet:"sea_surface_wave_from_direction_at_variance_spectral_density_maximum"`
	WaterSpeed            float64 `parquet:"surface_sea_water_speed"`
	WaveMaximumHeight     float64 `parquet:"sea_surface_wave_maximum_height"`
}

// ObservationRow is one plotted point in Parquet form.
type ObservationRow struct {
	TimestampMs int64   `parquet:"timestamp_ms"`
	Name        string  `parquet:"name,dict,zstd"`
	Value       float64 `parquet:"value"`
}

// RecordToRow converts a merged record.
func RecordToRow(r models.NormalizedRecord) RecordRow {
	return RecordRow{
		Datetime:              r.Datetime,
		TimestampMs:           r.Time.UnixMilli(),
		InRows:                r.InRows,
		InMap:                 r.InMap,
		WaveSignificantHeight: r.WaveSignificantHeight,
		AirTemperature:        r.AirTemperature,
		WindDirection:         r.WindDirection,
		WindSpeed:             r.WindSpeed,
		WaveDirection:         r.WaveDirection,
		WaterSpeed:            r.WaterSpeed,
		WaveMaximumHeight:     r.WaveMaximumHeight,
	}
}

// ObservationToRow converts an observation.
func ObservationToRow(o models.Observation) ObservationRow {
	return ObservationRow{TimestampMs: o.Time.UnixMilli(), Name: o.Name, Value: o.Value}
}

// WriteRecordsParquet writes records to w in order.
func WriteRecordsParquet(w io.Writer, records []models.NormalizedRecord) error {
	rows := make([]RecordRow, len(records))
	for i, r := range records {
		rows[i] = RecordToRow(r)
	}
	return writeRows(w, rows)
}

// WriteObservationsParquet writes observations to w in order.
func WriteObservationsParquet(w io.Writer, observations []models.Observation) error {
	rows := make([]ObservationRow, len(observations))
	for i, o := range observations {
		rows[i] = ObservationToRow(o)
	}
	return writeRows(w, rows)
}

func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w, parquet.Compression(&parquet.Zstd))
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			writer.Close()
			return fmt.Errorf("write rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

// RecordsParquet renders records into a byte slice for storage clients.
func RecordsParquet(records []models.NormalizedRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecordsParquet(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ObservationsParquet renders observations into a byte slice for storage clients.
func ObservationsParquet(observations []models.Observation) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteObservationsParquet(&buf, observations); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadRecordsParquet reads back a table written by WriteRecordsParquet.
func ReadRecordsParquet(data []byte) ([]RecordRow, error) {
	return readRows[RecordRow](data)
}

// ReadObservationsParquet reads back a table written by WriteObservationsParquet.
func ReadObservationsParquet(data []byte) ([]ObservationRow, error) {
	return readRows[ObservationRow](data)
}

func readRows[T any](data []byte) ([]T, error) {
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}
