// Package generation is the single boundary to the generative text backend.
// A Client issues exactly one outbound call per Generate invocation over one of
// two interchangeable transports: the native SDK or a direct REST call.
// Every failure is returned as a typed Result; callers never see a panic and
// nothing is retried.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Transport names accepted by New.
const (
	TransportSDK    = "sdk"
	TransportDirect = "direct"
)

// Client produces text from a single generation request.
type Client interface {
	Generate(ctx context.Context, req Request) Result
	Transport() string
}

// Params are the sampling parameters sent with every request.
type Params struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"top_p"`
	TopK            int     `json:"top_k"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// DefaultParams returns the sampling parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 4096,
	}
}

// Attachment is an optional binary payload sent alongside the prompt.
type Attachment struct {
	Data     []byte
	MimeType string
}

// Request is one generation call. It is built once and consumed once.
type Request struct {
	Prompt     string
	Attachment *Attachment
	Params     Params
}

// FailureKind classifies why a generation produced no text.
type FailureKind string

const (
	// FailureTransport covers network errors, non-2xx responses, and SDK errors.
	FailureTransport FailureKind = "transport"
	// FailureMalformed covers 2xx responses with no usable text.
	FailureMalformed FailureKind = "malformed"
)

// Failure describes a failed generation. Message carries the raw backend text.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Status  int         `json:"status,omitempty"`
	Message string      `json:"message"`
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("generation %s failure (status %d): %s", f.Kind, f.Status, f.Message)
	}
	return fmt.Sprintf("generation %s failure: %s", f.Kind, f.Message)
}

// Result is either generated text or a Failure, never both.
type Result struct {
	Text    string
	Failure *Failure
}

// OK reports whether the result carries generated text.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func succeeded(text string) Result {
	return Result{Text: text}
}

func failed(kind FailureKind, status int, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Status: status, Message: message}}
}

// recoverInto converts a panic inside a transport into a transport failure.
func recoverInto(res *Result, logger *slog.Logger) {
	if v := recover(); v != nil {
		logger.Error("generation transport panic", "panic", v)
		*res = failed(FailureTransport, 0, fmt.Sprintf("panic: %v", v))
	}
}

// Config selects and parameterizes a transport.
type Config struct {
	Transport  string
	Model      string
	BaseURL    string
	APIVersion string
	APIKey     string
	// HTTPClient is shared by both transports. Nil means a client with no
	// timeout beyond the transport defaults.
	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}

// New constructs the Client named by cfg.Transport.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("generation model required")
	}

	switch cfg.Transport {
	case TransportSDK, "":
		return NewSDK(ctx, cfg, logger)
	case TransportDirect:
		return NewDirect(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown generation transport %q", cfg.Transport)
	}
}

// ImageMIMEType normalizes a declared upload type to an image/<subtype> form,
// taking the segment after the last slash as the subtype.
func ImageMIMEType(declared string) string {
	declared = strings.TrimSpace(declared)
	if i := strings.LastIndexByte(declared, '/'); i >= 0 {
		declared = declared[i+1:]
	}
	if declared == "" {
		declared = "png"
	}
	return "image/" + strings.ToLower(declared)
}
