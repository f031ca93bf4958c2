package bulkimport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/sakshamsingh/shop-invoice/internal/obs"
)

const extractionPrompt = `Extract every item name and quantity visible in this shop list image. ` +
	`Respond with ONLY a JSON array of objects shaped like [{"name": "IRON_INGOT", "quantity": 3}]. ` +
	`Use the raw item names as written. If no items are visible, respond with [].`

// Extractor calls a Gemini proxy to pull (name, quantity) pairs out of
// uploaded images. Every failure collapses to an empty pair list so the cart
// layer never sees extraction errors.
type Extractor struct {
	client *resty.Client
	url    string
	apiKey string
	logger zerolog.Logger
}

// ExtractorConfig groups Extractor dependencies.
type ExtractorConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewExtractor constructs an Extractor. An empty URL returns nil, which the
// handler treats as the feature being disabled.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetHeader("content-type", "application/json").
		SetTimeout(timeout)
	return &Extractor{client: client, url: url, apiKey: strings.TrimSpace(cfg.APIKey), logger: cfg.Logger}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Extract runs each image through the proxy and concatenates the results.
func (e *Extractor) Extract(ctx context.Context, images []Image) []Pair {
	if e == nil {
		return nil
	}
	pairs := make([]Pair, 0)
	for _, image := range images {
		pairs = append(pairs, e.extractOne(ctx, image)...)
	}
	return pairs
}

// Image is one uploaded picture of a shop list.
type Image struct {
	MimeType string
	Data     []byte
}

func (e *Extractor) extractOne(ctx context.Context, image Image) []Pair {
	mime := image.MimeType
	if mime == "" {
		mime = "image/png"
	}
	body := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{
		{Text: extractionPrompt},
		{InlineData: &geminiInlineData{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(image.Data),
		}},
	}}}}

	req := e.client.R().SetContext(ctx).SetBody(body)
	if e.apiKey != "" {
		req.SetHeader("x-goog-api-key", e.apiKey)
	}
	var decoded geminiResponse
	start := time.Now()
	resp, err := req.SetResult(&decoded).Post(e.url)
	if obs.ExtractorLatency != nil {
		obs.ExtractorLatency.Observe(obs.DurationMillis(time.Since(start)))
	}
	if err != nil {
		e.logger.Warn().Err(err).Msg("extractor call failed")
		return nil
	}
	if resp.IsError() {
		e.logger.Warn().Int("status", resp.StatusCode()).Msg("extractor returned error status")
		return nil
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil
	}
	return parsePairs(decoded.Candidates[0].Content.Parts[0].Text)
}

var linePattern = regexp.MustCompile(`(?m)^\s*(.+?)\s*[:x]\s*(\d+)\s*$`)

// parsePairs decodes the model output: a JSON array, possibly wrapped in
// markdown fences, with a plain "Name: Qty" line scan as fallback.
func parsePairs(text string) []Pair {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	var raw []struct {
		Name     string `json:"name"`
		Quantity any    `json:"quantity"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err == nil {
		pairs := make([]Pair, 0, len(raw))
		for _, entry := range raw {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				continue
			}
			pairs = append(pairs, Pair{Name: name, Quantity: coerceQuantity(entry.Quantity)})
		}
		return pairs
	}

	matches := linePattern.FindAllStringSubmatch(cleaned, -1)
	pairs := make([]Pair, 0, len(matches))
	for _, match := range matches {
		quantity, err := strconv.Atoi(match[2])
		if err != nil {
			quantity = 1
		}
		pairs = append(pairs, Pair{Name: strings.TrimSpace(match[1]), Quantity: quantity})
	}
	return pairs
}

func coerceQuantity(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		return 1
	default:
		return 1
	}
}
