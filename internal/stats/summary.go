// Package stats summarizes plotted series for the report text and manifest.
package stats

import (
	"math"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"

	"seastate/internal/models"
)

// RelativeAccuracy of the quantile sketches.
const RelativeAccuracy = 0.01

// Summary holds running statistics for one metric
type Summary struct {
	Metric string    `json:"metric" yaml:"metric"`
	Count  int       `json:"count" yaml:"count"`
	Min    float64   `json:"min" yaml:"min"`
	Max    float64   `json:"max" yaml:"max"`
	Mean   float64   `json:"mean" yaml:"mean"`
	P50    float64   `json:"p50" yaml:"p50"`
	P90    float64   `json:"p90" yaml:"p90"`
	P99    float64   `json:"p99" yaml:"p99"`
	First  time.Time `json:"first" yaml:"first"`
	Last   time.Time `json:"last" yaml:"last"`
	// Latest is the value at Last.
	Latest float64 `json:"latest" yaml:"latest"`
}

// accumulator builds one Summary
type accumulator struct {
	summary Summary
	sum     float64
	sketch  *ddsketch.DDSketch
}

func newAccumulator(metric string) *accumulator {
	acc := &accumulator{
		summary: Summary{Metric: metric, Min: math.MaxFloat64, Max: -math.MaxFloat64},
	}
	if sketch, err := ddsketch.NewDefaultDDSketch(RelativeAccuracy); err == nil {
		acc.sketch = sketch
	}
	return acc
}

func (a *accumulator) add(obs models.Observation) {
	s := &a.summary
	if math.IsNaN(obs.Value) || math.IsInf(obs.Value, 0) {
		return
	}

	s.Count++
	a.sum += obs.Value
	if obs.Value < s.Min {
		s.Min = obs.Value
	}
	if obs.Value > s.Max {
		s.Max = obs.Value
	}
	if s.Count == 1 || obs.Time.Before(s.First) {
		s.First = obs.Time
	}
	if s.Count == 1 || !obs.Time.Before(s.Last) {
		s.Last = obs.Time
		s.Latest = obs.Value
	}

	if a.sketch != nil {
		a.sketch.Add(obs.Value)
	}
}

func (a *accumulator) result() Summary {
	s := a.summary
	if s.Count == 0 {
		s.Min, s.Max = 0, 0
		return s
	}

	s.Mean = a.sum / float64(s.Count)
	if a.sketch != nil {
		s.P50, _ = a.sketch.GetValueAtQuantile(0.50)
		s.P90, _ = a.sketch.GetValueAtQuantile(0.90)
		s.P99, _ = a.sketch.GetValueAtQuantile(0.99)
	}
	return s
}

// Summarize returns one Summary per observation name, in order of first
// appearance. Gaps never reach this point: callers pass observations that
// were already filtered against the sentinel.
func Summarize(observations []models.Observation) []Summary {
	var order []string
	byName := make(map[string]*accumulator)

	for _, obs := range observations {
		acc, ok := byName[obs.Name]
		if !ok {
			acc = newAccumulator(obs.Name)
			byName[obs.Name] = acc
			order = append(order, obs.Name)
		}
		acc.add(obs)
	}

	out := make([]Summary, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name].result())
	}
	return out
}

// Find returns the summary for metric.
func Find(summaries []Summary, metric string) (Summary, bool) {
	for _, s := range summaries {
		if s.Metric == metric {
			return s, true
		}
	}
	return Summary{}, false
}
