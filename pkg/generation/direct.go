package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com"
	defaultAPIVersion = "v1beta"
)

type directPart struct {
	Text string `json:"text,omitempty"`
}

type directContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []directPart `json:"parts"`
}

type directGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type directRequest struct {
	Contents         []directContent        `json:"contents"`
	GenerationConfig directGenerationConfig `json:"generationConfig"`
}

type directCandidate struct {
	Content directContent `json:"content"`
}

type directResponse struct {
	Candidates []directCandidate `json:"candidates"`
}

// Direct calls the generateContent REST endpoint with a text-only body.
type Direct struct {
	http     *http.Client
	endpoint string
	apiKey   string
	logger   *slog.Logger
}

// NewDirect creates the REST transport.
func NewDirect(cfg Config, logger *slog.Logger) *Direct {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	return &Direct{
		http: cfg.httpClient(),
		endpoint: fmt.Sprintf(
			"%s/%s/models/%s:generateContent",
			strings.TrimRight(base, "/"), version, url.PathEscape(cfg.Model),
		),
		apiKey: cfg.APIKey,
		logger: logger.With("system", "generation", "transport", TransportDirect),
	}
}

func (d *Direct) Transport() string {
	return TransportDirect
}

// Generate sends the prompt as a single user turn. Attachments are not
// supported by this transport and are dropped.
func (d *Direct) Generate(ctx context.Context, req Request) (res Result) {
	defer recoverInto(&res, d.logger)

	if req.Attachment != nil {
		d.logger.DebugContext(ctx, "attachment ignored", "mime_type", req.Attachment.MimeType)
	}

	body, err := json.Marshal(directRequest{
		Contents: []directContent{{
			Role:  "user",
			Parts: []directPart{{Text: req.Prompt}},
		}},
		GenerationConfig: directGenerationConfig{
			Temperature:     req.Params.Temperature,
			TopP:            req.Params.TopP,
			TopK:            req.Params.TopK,
			MaxOutputTokens: req.Params.MaxOutputTokens,
		},
	})
	if err != nil {
		return failed(FailureTransport, 0, fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return failed(FailureTransport, 0, fmt.Sprintf("create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", d.apiKey)

	resp, err := d.http.Do(httpReq)
	if err != nil {
		return failed(FailureTransport, 0, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(FailureTransport, resp.StatusCode, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failed(FailureTransport, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed directResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failed(FailureMalformed, resp.StatusCode, fmt.Sprintf("decode response: %v", err))
	}
	if len(parsed.Candidates) == 0 {
		return failed(FailureMalformed, resp.StatusCode, "no candidates in response")
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return failed(FailureMalformed, resp.StatusCode, "empty text in response")
	}

	return succeeded(text.String())
}
