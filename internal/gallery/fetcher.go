package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

// maxErrorBody bounds how much of a failed response body is kept for diagnostics
const maxErrorBody = 512

// FetcherConfig holds the two base locations the fetcher works against
type FetcherConfig struct {
	// APIBaseURL is the prefix of the metadata listing endpoint, e.g. https://api.example.com/Prod
	APIBaseURL string
	// AssetBaseURL is the prefix under which image blobs are served by id
	AssetBaseURL string
	// HTTPClient defaults to http.DefaultClient
	HTTPClient *http.Client
}

// RequestFailure covers every way a listing request can fail: transport,
// HTTP status and body decoding
type RequestFailure struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}

// Result is the outcome of one FetchAndRender call. Err is nil on success.
type Result struct {
	Appended int
	Err      error
}

// Fetcher retrieves image records from the listing API and appends them to a Table
type Fetcher struct {
	apiBase    string
	assetBase  string
	httpClient *http.Client
	surface    *Table
	logger     *zap.SugaredLogger
}

// NewFetcher creates a fetcher that renders into surface. A nil logger discards diagnostics.
func NewFetcher(cfg FetcherConfig, surface *Table, logger *zap.SugaredLogger) *Fetcher {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Fetcher{
		apiBase:    strings.TrimRight(cfg.APIBaseURL, "/"),
		assetBase:  strings.TrimRight(cfg.AssetBaseURL, "/"),
		httpClient: httpClient,
		surface:    surface,
		logger:     logger,
	}
}

// ImagesURL returns the listing endpoint address
func (f *Fetcher) ImagesURL() string {
	return f.apiBase + "/images"
}

// FetchImages issues GET <apiBase>/images and decodes the JSON array it returns
func (f *Fetcher) FetchImages(ctx context.Context) ([]imagemodels.Record, error) {
	url := f.ImagesURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestFailure{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &RequestFailure{URL: url, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestFailure{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code, body: %s", strings.TrimSpace(string(body))),
		}
	}

	var records []imagemodels.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &RequestFailure{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	// a literal null decodes without error but is not a listing
	if records == nil {
		return nil, &RequestFailure{URL: url, StatusCode: resp.StatusCode, Err: errors.New("failed to decode response: expected a JSON array")}
	}

	return records, nil
}

// FetchAndRender fetches the listing once and appends one row per record to the
// surface. Failures are logged and returned in the Result; nothing is appended then.
func (f *Fetcher) FetchAndRender(ctx context.Context) Result {
	records, err := f.FetchImages(ctx)
	if err != nil {
		f.logger.Errorw("failed to fetch images", "url", f.ImagesURL(), "error", err)
		return Result{Err: err}
	}

	rows := BuildRows(f.assetBase, records)
	f.surface.Append(rows...)
	f.logger.Infow("images rendered", "url", f.ImagesURL(), "rows", len(rows))

	return Result{Appended: len(rows)}
}

// FetchAndRenderAsync runs FetchAndRender in the background and delivers its Result
// on the returned channel, which is closed afterwards
func (f *Fetcher) FetchAndRenderAsync(ctx context.Context) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		done <- f.FetchAndRender(ctx)
	}()
	return done
}
