package reports

import (
	"math"
	"time"

	"seastate/internal/merge"
	"seastate/internal/models"
)

// JSON has no infinities; "Infinity" readings are written as the largest
// finite value of the same sign.
func finite(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

var numericFields = append(append([]string{}, models.RowFields...), models.MapFields...)

func encodableRecords(records []models.NormalizedRecord) []models.NormalizedRecord {
	out := make([]models.NormalizedRecord, len(records))
	for i, rec := range records {
		for _, field := range numericFields {
			if v, ok := rec.Value(field); ok {
				rec.SetValue(field, finite(v))
			}
		}
		out[i] = rec
	}
	return out
}

func encodableAggregated(records []models.AggregatedRecord) []models.AggregatedRecord {
	out := make([]models.AggregatedRecord, len(records))
	for i, rec := range records {
		rec.SignificantHeight = finite(rec.SignificantHeight)
		rec.MaximumHeight = finite(rec.MaximumHeight)
		out[i] = rec
	}
	return out
}

// DatasetPayload is the JSON body of the dataset API
type DatasetPayload struct {
	GeneratedAt  time.Time                 `json:"generatedAt"`
	Records      []models.NormalizedRecord `json:"records"`
	Observations []models.Observation      `json:"observations"`
	Aggregated   []models.AggregatedRecord `json:"aggregated"`
	Views        []ViewSummary             `json:"views"`
}

// NewDatasetPayload prepares ds for JSON encoding.
func NewDatasetPayload(ds *merge.Dataset, generatedAt time.Time) DatasetPayload {
	return DatasetPayload{
		GeneratedAt:  generatedAt.UTC(),
		Records:      encodableRecords(ds.Records),
		Observations: ds.Observations,
		Aggregated:   encodableAggregated(ds.Aggregated),
		Views:        SummarizeViews(ds.Views),
	}
}
