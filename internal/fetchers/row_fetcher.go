package fetchers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"seastate/internal/logger"
	"seastate/internal/models"
	"seastate/internal/numeric"
)

// RowFetcher loads the row-oriented (CSV) source
type RowFetcher struct {
	data *DataFetcher
}

// NewRowFetcher creates a row source loader on top of a data fetcher
func NewRowFetcher(data *DataFetcher) *RowFetcher {
	return &RowFetcher{data: data}
}

// LoadRowSource fetches and parses a row source. Numeric fields that fail
// coercion become 0.
func (r *RowFetcher) LoadRowSource(ctx context.Context, uri string) (*models.RowSource, error) {
	return r.LoadRowSourceWithDefaults(ctx, uri, nil)
}

// LoadRowSourceWithDefaults is LoadRowSource with per-field replacement values.
func (r *RowFetcher) LoadRowSourceWithDefaults(ctx context.Context, uri string, defaults models.Defaults) (*models.RowSource, error) {
	body, err := r.data.Fetch(ctx, uri, "text/csv")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch row source: %w", err)
	}

	src, err := ParseRowSource(uri, body, defaults)
	if err != nil {
		return nil, err
	}

	r.data.log.Debug("Row source loaded", logger.Fields{
		"uri":                  uri,
		"records":              src.Stats.Records,
		"malformed_fields":     src.Stats.MalformedFields,
		"malformed_timestamps": src.Stats.MalformedTimestamps,
	})
	return src, nil
}

// ParseRowSource parses a delimited body whose first row names the fields.
// Cells that are not numeric are replaced with defaults.For(field); timestamps
// that do not match numeric.TimestampLayout become the epoch. No row is dropped.
func ParseRowSource(uri string, body []byte, defaults models.Defaults) (*models.RowSource, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	src := &models.RowSource{URI: uri, Body: body}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return src, nil
	}
	if err != nil {
		return nil, unavailable(uri, 0, fmt.Errorf("failed to parse row source header: %w", err))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	seen := make(map[string]struct{})
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unavailable(uri, 0, fmt.Errorf("failed to parse row source: %w", err))
		}

		record := models.RawRowRecord{Datetime: cell(row, columns, models.FieldDatetime)}

		var ok bool
		record.Time, ok = numeric.ParseTimestamp(record.Datetime)
		if !ok {
			src.Stats.MalformedTimestamps++
		}

		for _, field := range models.RowFields {
			value := cell(row, columns, field)
			if numeric.IsNumericString(value) {
				v, _ := numeric.ParseString(value)
				record.SetValue(field, v)
				continue
			}
			src.Stats.MalformedFields++
			record.SetValue(field, defaults.For(field))
		}

		if _, dup := seen[record.Datetime]; dup {
			src.Stats.DuplicateKeys++
		}
		seen[record.Datetime] = struct{}{}

		src.Records = append(src.Records, record)
	}

	src.Stats.Records = len(src.Records)
	return src, nil
}

// cell returns the value of column name in row, or "" when the column or cell is absent.
func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
