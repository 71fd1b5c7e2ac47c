package merge

import (
	"seastate/internal/models"
)

// View identifiers
const (
	ViewSignificantHeight = "wave-significant-height"
	ViewWaterSpeed        = "water-speed"
	ViewWaveHeight        = "wave-height"
)

// Series names
var (
	MetricMaximum     = models.Metric{Name: "MAX", Field: models.FieldWaveMaximumHeight}
	MetricSignificant = models.Metric{Name: "SIGNIFICANT", Field: models.FieldWaveSignificantHeight}
	MetricWaterSpeed  = models.Metric{Name: "WATER_SPEED", Field: models.FieldWaterSpeed}
)

// WaveHeightMetrics are the series of the wave height view, in legend order.
var WaveHeightMetrics = []models.Metric{MetricMaximum, MetricSignificant}

// View is the data behind one chart
type View struct {
	ID       string
	Title    string
	YLabel   string
	Sentinel float64
	// Gapped views break their lines at Sentinel instead of plotting it.
	Gapped     bool
	Records    []models.NormalizedRecord
	Series     []Series
	Aggregated []models.AggregatedRecord
	// YMax is the upper bound of the value axis; the lower bound is 0.
	YMax float64
}

// Observations flattens the view the same way its chart is drawn.
func (v View) Observations() []models.Observation {
	metrics := make([]models.Metric, len(v.Series))
	for i, s := range v.Series {
		metrics[i] = s.Metric
	}
	if v.Gapped {
		return ToObservations(v.Records, metrics, v.Sentinel)
	}
	var out []models.Observation
	for _, s := range v.Series {
		out = append(out, s.Observations()...)
	}
	return out
}

// BuildSignificantHeightView plots the row source alone with zero-defaulted fields.
func BuildSignificantHeightView(rows []models.RawRowRecord) View {
	records := Merge(rows, nil, models.UniformDefaults(models.PlotSentinel, models.MapFields...))
	series := BuildSeries(records, MetricSignificant)

	v := View{
		ID:       ViewSignificantHeight,
		Title:    "Sea Surface Wave Significant Height",
		YLabel:   "Significant height (m)",
		Sentinel: models.PlotSentinel,
		Records:  records,
		Series:   []Series{series},
	}
	v.YMax = yMax(v.Series, 0)
	return v
}

// BuildWaterSpeedView plots the map source alone with zero-defaulted fields.
func BuildWaterSpeedView(mapRecords []models.RawMapRecord) View {
	records := Merge(nil, mapRecords, models.UniformDefaults(models.PlotSentinel, models.RowFields...))
	series := BuildSeries(records, MetricWaterSpeed)

	v := View{
		ID:       ViewWaterSpeed,
		Title:    "Surface Sea Water Speed",
		YLabel:   "Water speed (m/s)",
		Sentinel: models.PlotSentinel,
		Records:  records,
		Series:   []Series{series},
	}
	v.YMax = yMax(v.Series, 0)
	return v
}

// BuildWaveHeightView joins both sources with the aggregate sentinel and plots
// maximum and significant height, leaving gaps where either is missing.
func BuildWaveHeightView(rows []models.RawRowRecord, mapRecords []models.RawMapRecord) View {
	defaults := AggregateDefaults()
	records := Merge(rows, mapRecords, defaults)

	series := make([]Series, len(WaveHeightMetrics))
	for i, metric := range WaveHeightMetrics {
		series[i] = BuildGappedSeries(records, metric, models.AggregateSentinel)
	}

	v := View{
		ID:         ViewWaveHeight,
		Title:      "Sea Surface Wave Maximum Height and Significant Height",
		YLabel:     "Water Level (m)",
		Sentinel:   models.AggregateSentinel,
		Gapped:     true,
		Records:    records,
		Series:     series,
		Aggregated: Aggregate(records),
	}
	v.YMax = yMax(v.Series, 1)
	return v
}

// AggregateDefaults marks every field of both sources missing with the aggregate sentinel.
func AggregateDefaults() models.Defaults {
	return models.UniformDefaults(models.AggregateSentinel, models.RowFields...).
		With(models.UniformDefaults(models.AggregateSentinel, models.MapFields...))
}

// yMax is the largest value over all series plus headroom, never below 0.
func yMax(series []Series, headroom float64) float64 {
	var values []float64
	for _, s := range series {
		values = append(values, s.Values()...)
	}
	m, ok := maxValue(values)
	if !ok || m+headroom < 0 {
		return 0
	}
	return m + headroom
}
