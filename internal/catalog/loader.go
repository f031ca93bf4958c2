package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Loader fetches catalog documents over HTTP. Individual document failures are
// tolerated; the merge continues with whatever loaded.
type Loader struct {
	client    *resty.Client
	baseURL   string
	documents []string
	timeout   time.Duration
	logger    zerolog.Logger
}

// LoaderConfig groups Loader dependencies.
type LoaderConfig struct {
	BaseURL   string
	Documents []string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// NewLoader constructs a Loader.
func NewLoader(cfg LoaderConfig) (*Loader, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("catalog: base url is required")
	}
	docs := make([]string, 0, len(cfg.Documents))
	for _, doc := range cfg.Documents {
		if trimmed := strings.TrimSpace(doc); trimmed != "" {
			docs = append(docs, trimmed)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("catalog: at least one document is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{
		client:    resty.New(),
		baseURL:   base,
		documents: docs,
		timeout:   timeout,
		logger:    cfg.Logger,
	}, nil
}

// FetchAll downloads and parses every configured document concurrently,
// skipping the ones that fail. Results are flattened in configured document
// order so later documents win on duplicate names.
func (l *Loader) FetchAll(ctx context.Context) []RawItem {
	results := make([][]RawItem, len(l.documents))

	var wg sync.WaitGroup
	for i, doc := range l.documents {
		wg.Add(1)
		go func(i int, doc string) {
			defer wg.Done()
			fetched, err := l.fetchOne(ctx, doc)
			if err != nil {
				l.logger.Warn().Err(err).Str("document", doc).Msg("catalog document unavailable")
				return
			}
			results[i] = fetched
		}(i, doc)
	}
	wg.Wait()

	items := make([]RawItem, 0)
	for _, fetched := range results {
		items = append(items, fetched...)
	}
	return items
}

func (l *Loader) fetchOne(ctx context.Context, doc string) ([]RawItem, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	url := l.baseURL + "/" + strings.TrimLeft(doc, "/")
	resp, err := l.client.R().SetContext(reqCtx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", doc, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: status %d", doc, resp.StatusCode())
	}
	parsed, err := ParseDocument(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc, err)
	}
	return parsed, nil
}
