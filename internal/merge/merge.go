// Package merge joins the row and map sources into one chronologically
// ordered record per timestamp and flattens records into plotted observations.
package merge

import (
	"math"
	"sort"

	"seastate/internal/models"
	"seastate/internal/numeric"
)

// Merge outer-joins rows and map records on the raw timestamp string. Every
// key from either side yields exactly one record; fields the other side did
// not supply take defaults.For(field). Records are ordered by parsed time,
// with ties kept in join order (rows first, then map-only keys).
//
// A key repeated within one side keeps its first position; later values
// overwrite earlier ones.
func Merge(rows []models.RawRowRecord, mapRecords []models.RawMapRecord, defaults models.Defaults) []models.NormalizedRecord {
	out := make([]models.NormalizedRecord, 0, len(rows)+len(mapRecords))
	index := make(map[string]int, len(rows)+len(mapRecords))

	for _, row := range rows {
		i, ok := index[row.Datetime]
		if !ok {
			rec := models.NormalizedRecord{Datetime: row.Datetime, Time: row.Time}
			applyDefaults(&rec, models.MapFields, defaults)
			i = len(out)
			index[row.Datetime] = i
			out = append(out, rec)
		}
		applyRow(&out[i], row, defaults)
	}

	for _, mr := range mapRecords {
		i, ok := index[mr.Datetime]
		if !ok {
			rec := models.NormalizedRecord{Datetime: mr.Datetime}
			rec.Time, _ = numeric.ParseTimestamp(mr.Datetime)
			applyDefaults(&rec, models.RowFields, defaults)
			i = len(out)
			index[mr.Datetime] = i
			out = append(out, rec)
		}
		applyMap(&out[i], mr, defaults)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func applyRow(rec *models.NormalizedRecord, row models.RawRowRecord, defaults models.Defaults) {
	rec.InRows = true
	for _, field := range models.RowFields {
		v, _ := row.Value(field)
		rec.SetValue(field, valueOr(v, defaults.For(field)))
	}
}

func applyMap(rec *models.NormalizedRecord, mr models.RawMapRecord, defaults models.Defaults) {
	rec.InMap = true
	for _, field := range models.MapFields {
		v, _ := mr.Value(field)
		rec.SetValue(field, valueOr(v, defaults.For(field)))
	}
}

func applyDefaults(rec *models.NormalizedRecord, fields []string, defaults models.Defaults) {
	for _, field := range fields {
		rec.SetValue(field, defaults.For(field))
	}
}

// valueOr keeps v when it is numeric under the shared predicate.
func valueOr(v, def float64) float64 {
	if !numeric.IsNumber(v) {
		return def
	}
	return v
}

// ToObservations emits one observation per (record, metric) pair, in record
// order and then metric order. Points whose value equals sentinel are gaps and
// are left out.
func ToObservations(records []models.NormalizedRecord, metrics []models.Metric, sentinel float64) []models.Observation {
	out := make([]models.Observation, 0, len(records)*len(metrics))
	for _, rec := range records {
		for _, metric := range metrics {
			v, ok := rec.Value(metric.Field)
			if !ok || isGap(v, sentinel) {
				continue
			}
			out = append(out, models.Observation{Time: rec.Time, Name: metric.Name, Value: v})
		}
	}
	return out
}

// isGap reports whether v is left out of a plot: the sentinel, NaN or an infinity.
func isGap(v, sentinel float64) bool {
	return v == sentinel || !numeric.IsNumber(v) || math.IsInf(v, 0)
}

// Aggregate builds the wide per-timestamp record of the wave height view.
func Aggregate(records []models.NormalizedRecord) []models.AggregatedRecord {
	out := make([]models.AggregatedRecord, len(records))
	for i, rec := range records {
		out[i] = models.AggregatedRecord{
			Time:              rec.Time,
			SignificantHeight: rec.WaveSignificantHeight,
			MaximumHeight:     rec.WaveMaximumHeight,
		}
	}
	return out
}

// KeyCount returns the number of distinct timestamp keys across both sides.
func KeyCount(rows []models.RawRowRecord, mapRecords []models.RawMapRecord) int {
	keys := make(map[string]struct{}, len(rows)+len(mapRecords))
	for _, r := range rows {
		keys[r.Datetime] = struct{}{}
	}
	for _, m := range mapRecords {
		keys[m.Datetime] = struct{}{}
	}
	return len(keys)
}

// maxValue returns the largest finite value.
func maxValue(values []float64) (float64, bool) {
	m, found := 0.0, false
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		if !found || v > m {
			m, found = v, true
		}
	}
	return m, found
}
