package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// SDK generates through the native Gemini client and supports one inline
// attachment per request.
type SDK struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewSDK creates the SDK transport. BaseURL and APIVersion override the
// client defaults when set.
func NewSDK(ctx context.Context, cfg Config, logger *slog.Logger) (*SDK, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient(),
	}
	if cfg.BaseURL != "" || cfg.APIVersion != "" {
		cc.HTTPOptions = genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &SDK{
		client: client,
		model:  cfg.Model,
		logger: logger.With("system", "generation", "transport", TransportSDK),
	}, nil
}

func (s *SDK) Transport() string {
	return TransportSDK
}

func (s *SDK) Generate(ctx context.Context, req Request) (res Result) {
	defer recoverInto(&res, s.logger)

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Attachment != nil && len(req.Attachment.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(
			req.Attachment.Data,
			ImageMIMEType(req.Attachment.MimeType),
		))
	}

	resp, err := s.client.Models.GenerateContent(
		ctx,
		s.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		contentConfig(req.Params),
	)
	if err != nil {
		return failed(FailureTransport, apiStatus(err), err.Error())
	}
	// The client only returns a response for 2xx replies.
	if resp == nil || len(resp.Candidates) == 0 {
		return failed(FailureMalformed, http.StatusOK, "no candidates in response")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return failed(FailureMalformed, http.StatusOK, "empty text in response")
	}

	return succeeded(text)
}

// apiStatus extracts the HTTP status carried by a genai API error, or 0 when
// the request never produced a response.
func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func contentConfig(p Params) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(p.Temperature)),
		TopP:             genai.Ptr(float32(p.TopP)),
		TopK:             genai.Ptr(float32(p.TopK)),
		MaxOutputTokens:  int32(p.MaxOutputTokens),
		ResponseMIMEType: "text/plain",
	}
}
