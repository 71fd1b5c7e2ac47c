package fetchers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"seastate/internal/logger"
	"seastate/internal/models"
	"seastate/internal/numeric"
)

// MapFetcher loads the map-oriented (JSON object keyed by timestamp) source
type MapFetcher struct {
	data *DataFetcher
}

// NewMapFetcher creates a map source loader on top of a data fetcher
func NewMapFetcher(data *DataFetcher) *MapFetcher {
	return &MapFetcher{data: data}
}

// LoadMapSource fetches and parses a map source, substituting sentinel for
// every absent or falsy field.
func (m *MapFetcher) LoadMapSource(ctx context.Context, uri string, sentinel float64) (*models.MapSource, error) {
	body, err := m.data.Fetch(ctx, uri, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch map source: %w", err)
	}

	src, err := ParseMapSource(uri, body, sentinel)
	if err != nil {
		return nil, err
	}

	m.data.log.Debug("Map source loaded", logger.Fields{
		"uri":              uri,
		"sentinel":         sentinel,
		"records":          src.Stats.Records,
		"malformed_fields": src.Stats.MalformedFields,
		"duplicate_keys":   src.Stats.DuplicateKeys,
	})
	return src, nil
}

// ParseMapSource decodes a JSON object whose keys are timestamps. Records keep
// the key order of the document; a repeated key keeps its first position and
// takes the last value. Keys are not parsed as dates here.
func ParseMapSource(uri string, body []byte, sentinel float64) (*models.MapSource, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, unavailable(uri, 0, fmt.Errorf("failed to parse map source: %w", err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, unavailable(uri, 0, errors.New("map source is not a JSON object"))
	}

	src := &models.MapSource{URI: uri, Sentinel: sentinel, Body: body}
	index := make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, unavailable(uri, 0, fmt.Errorf("failed to parse map source key: %w", err))
		}
		key, _ := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, unavailable(uri, 0, fmt.Errorf("failed to parse map source value for %q: %w", key, err))
		}

		record, malformed := mapRecord(key, value, sentinel)
		src.Stats.MalformedFields += malformed

		if i, dup := index[key]; dup {
			src.Records[i] = record
			src.Stats.DuplicateKeys++
			continue
		}
		index[key] = len(src.Records)
		src.Records = append(src.Records, record)
	}

	if _, err := dec.Token(); err != nil {
		return nil, unavailable(uri, 0, fmt.Errorf("failed to parse map source: %w", err))
	}

	src.Stats.Records = len(src.Records)
	return src, nil
}

// mapRecord builds one record from a decoded value. A value that is not an
// object contributes no fields.
func mapRecord(key string, value interface{}, sentinel float64) (models.RawMapRecord, int) {
	record := models.RawMapRecord{Datetime: key}
	body, isObject := value.(map[string]interface{})

	malformed := 0
	for _, field := range models.MapFields {
		var raw interface{}
		if isObject {
			raw = body[field]
		}
		v, bad := numeric.OrDefault(raw, sentinel)
		if bad || (!isObject && value != nil) {
			malformed++
		}
		record.SetValue(field, v)
	}
	return record, malformed
}
