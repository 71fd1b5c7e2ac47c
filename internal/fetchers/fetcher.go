package fetchers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"seastate/internal/logger"
	"seastate/internal/models"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single source request.
const DefaultTimeout = 30 * time.Second

// DataFetcher loads the row and map sources of a render cycle
type DataFetcher struct {
	client    *resty.Client
	rowLoader *RowFetcher
	mapLoader *MapFetcher
	log       *logger.Logger
}

// NewDataFetcher creates a data fetcher with the default timeout
func NewDataFetcher() *DataFetcher {
	return NewDataFetcherWithTimeout(DefaultTimeout)
}

// NewDataFetcherWithTimeout creates a data fetcher whose requests time out after timeout.
// Failed requests are not retried.
func NewDataFetcherWithTimeout(timeout time.Duration) *DataFetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)

	f := &DataFetcher{
		client: client,
		log:    logger.Component("fetchers"),
	}
	f.rowLoader = NewRowFetcher(f)
	f.mapLoader = NewMapFetcher(f)
	return f
}

// Rows returns the row source loader.
func (f *DataFetcher) Rows() *RowFetcher {
	return f.rowLoader
}

// Map returns the map source loader.
func (f *DataFetcher) Map() *MapFetcher {
	return f.mapLoader
}

// Sources is both sources of a render cycle, fetched once and parsed with
// the defaults of the aggregated view.
type Sources struct {
	Data *models.SourceData
	Rows *models.RowSource
	Map  *models.MapSource
}

// FetchAllData loads the row source and then the map source. The row source
// is awaited before the map source is requested; the first failure aborts.
func (f *DataFetcher) FetchAllData(ctx context.Context, rowURI, mapURI string, rowDefaults models.Defaults, mapSentinel float64) (*Sources, error) {
	f.log.Info("Fetching sources", logger.Fields{"rows": rowURI, "map": mapURI})

	rows, err := f.Rows().LoadRowSourceWithDefaults(ctx, rowURI, rowDefaults)
	if err != nil {
		return nil, err
	}

	mapSrc, err := f.Map().LoadMapSource(ctx, mapURI, mapSentinel)
	if err != nil {
		return nil, err
	}

	return &Sources{
		Data: &models.SourceData{
			RowURI:  rowURI,
			MapURI:  mapURI,
			RowBody: rows.Body,
			MapBody: mapSrc.Body,
			Fetched: time.Now().UTC(),
		},
		Rows: rows,
		Map:  mapSrc,
	}, nil
}

// Fetch reads uri over HTTP(S), or from the local filesystem for bare paths
// and file:// URIs.
func (f *DataFetcher) Fetch(ctx context.Context, uri, accept string) ([]byte, error) {
	if isHTTP(uri) {
		return f.fetchHTTP(ctx, uri, accept)
	}
	return f.fetchFile(ctx, uri)
}

func (f *DataFetcher) fetchHTTP(ctx context.Context, uri, accept string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", accept).
		Get(uri)

	if err != nil {
		return nil, unavailable(uri, 0, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, unavailable(uri, resp.StatusCode(), nil)
	}

	return resp.Body(), nil
}

func (f *DataFetcher) fetchFile(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(uri, 0, err)
	}

	data, err := os.ReadFile(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return nil, unavailable(uri, 0, err)
	}
	return data, nil
}

func isHTTP(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
