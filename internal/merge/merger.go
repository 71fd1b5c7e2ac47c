package merge

import (
	"context"
	"fmt"

	"seastate/internal/fetchers"
	"seastate/internal/logger"
	"seastate/internal/models"
)

// Dataset is everything one render cycle derives from the two sources.
// Consumers must treat the slices as read-only.
type Dataset struct {
	Source *models.SourceData `json:"source"`

	// Records is the full outer join with the aggregate sentinel.
	Records      []models.NormalizedRecord `json:"records"`
	Observations []models.Observation      `json:"observations"`
	Aggregated   []models.AggregatedRecord `json:"aggregated"`

	RowStats models.LoadStats `json:"row_stats"`
	MapStats models.LoadStats `json:"map_stats"`

	Views []View `json:"-"`
}

// View returns the view with the given id.
func (d *Dataset) View(id string) (View, bool) {
	for _, v := range d.Views {
		if v.ID == id {
			return v, true
		}
	}
	return View{}, false
}

// TimeSeriesMerger loads both sources and builds the dataset of a render cycle
type TimeSeriesMerger struct {
	fetcher *fetchers.DataFetcher
	log     *logger.Logger
}

// NewTimeSeriesMerger creates a merger that loads sources through fetcher
func NewTimeSeriesMerger(fetcher *fetchers.DataFetcher) *TimeSeriesMerger {
	return &TimeSeriesMerger{
		fetcher: fetcher,
		log:     logger.Component("merge"),
	}
}

// Load fetches the row source and then the map source and builds the
// dataset. Any unavailable source aborts the whole load.
func (m *TimeSeriesMerger) Load(ctx context.Context, rowURI, mapURI string) (*Dataset, error) {
	loaded, err := m.fetcher.FetchAllData(ctx, rowURI, mapURI, AggregateDefaults(), models.AggregateSentinel)
	if err != nil {
		return nil, err
	}
	return m.build(loaded.Data, loaded.Rows, loaded.Map)
}

// BuildDataset parses already fetched bodies into every view.
func (m *TimeSeriesMerger) BuildDataset(src *models.SourceData) (*Dataset, error) {
	aggRows, err := fetchers.ParseRowSource(src.RowURI, src.RowBody, AggregateDefaults())
	if err != nil {
		return nil, fmt.Errorf("row source: %w", err)
	}
	aggMap, err := fetchers.ParseMapSource(src.MapURI, src.MapBody, models.AggregateSentinel)
	if err != nil {
		return nil, fmt.Errorf("map source: %w", err)
	}
	return m.build(src, aggRows, aggMap)
}

// build derives the zero-defaulted sources of the single-source views from
// the same bodies and assembles the dataset.
func (m *TimeSeriesMerger) build(src *models.SourceData, aggRows *models.RowSource, aggMap *models.MapSource) (*Dataset, error) {
	plotRows, err := fetchers.ParseRowSource(src.RowURI, src.RowBody, nil)
	if err != nil {
		return nil, fmt.Errorf("row source: %w", err)
	}
	plotMap, err := fetchers.ParseMapSource(src.MapURI, src.MapBody, models.PlotSentinel)
	if err != nil {
		return nil, fmt.Errorf("map source: %w", err)
	}

	height := BuildWaveHeightView(aggRows.Records, aggMap.Records)

	ds := &Dataset{
		Source:       src,
		Records:      height.Records,
		Observations: height.Observations(),
		Aggregated:   height.Aggregated,
		RowStats:     aggRows.Stats,
		MapStats:     aggMap.Stats,
		Views: []View{
			height,
			BuildSignificantHeightView(plotRows.Records),
			BuildWaterSpeedView(plotMap.Records),
		},
	}

	if keys := KeyCount(aggRows.Records, aggMap.Records); keys != len(ds.Records) {
		return nil, fmt.Errorf("merged %d records from %d distinct timestamps", len(ds.Records), keys)
	}

	m.log.Info("Dataset built", logger.Fields{
		"row_records":          ds.RowStats.Records,
		"map_records":          ds.MapStats.Records,
		"merged_records":       len(ds.Records),
		"observations":         len(ds.Observations),
		"malformed_timestamps": ds.RowStats.MalformedTimestamps,
	})
	if n := ds.RowStats.MalformedFields + ds.MapStats.MalformedFields; n > 0 {
		m.log.Debug("Recovered malformed fields", logger.Fields{"count": n})
	}
	return ds, nil
}
