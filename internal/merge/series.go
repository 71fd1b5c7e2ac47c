package merge

import (
	"math"
	"time"

	"seastate/internal/models"
)

// Point is one sample of a series. Undefined points break the line.
type Point struct {
	Time    time.Time
	Value   float64
	Defined bool
}

// Series is the per-metric line of a view
type Series struct {
	Metric models.Metric
	Points []Point
}

// BuildSeries reads metric from every record. Every finite value is defined.
func BuildSeries(records []models.NormalizedRecord, metric models.Metric) Series {
	s := Series{Metric: metric, Points: make([]Point, 0, len(records))}
	for _, rec := range records {
		v, _ := rec.Value(metric.Field)
		s.Points = append(s.Points, Point{Time: rec.Time, Value: v, Defined: !math.IsInf(v, 0) && !math.IsNaN(v)})
	}
	return s
}

// BuildGappedSeries is BuildSeries with points equal to sentinel marked undefined.
func BuildGappedSeries(records []models.NormalizedRecord, metric models.Metric, sentinel float64) Series {
	s := BuildSeries(records, metric)
	for i := range s.Points {
		if isGap(s.Points[i].Value, sentinel) {
			s.Points[i].Defined = false
		}
	}
	return s
}

// Observations returns the defined points as observations.
func (s Series) Observations() []models.Observation {
	out := make([]models.Observation, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Defined {
			out = append(out, models.Observation{Time: p.Time, Name: s.Metric.Name, Value: p.Value})
		}
	}
	return out
}

// Segments splits the series into runs of consecutive defined points.
func (s Series) Segments() [][]Point {
	var segments [][]Point
	var current []Point
	for _, p := range s.Points {
		if !p.Defined {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, p)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// Values returns every point value, defined or not.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// TimeExtent returns the earliest and latest point times.
func (s Series) TimeExtent() (time.Time, time.Time, bool) {
	if len(s.Points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi := s.Points[0].Time, s.Points[0].Time
	for _, p := range s.Points[1:] {
		if p.Time.Before(lo) {
			lo = p.Time
		}
		if p.Time.After(hi) {
			hi = p.Time
		}
	}
	return lo, hi, true
}
