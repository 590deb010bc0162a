package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	defaultTranslateURL = "https://translate.google.com"
	defaultChunkSize    = 100
	userAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// TranslateConfig configures the Translate synthesizer.
type TranslateConfig struct {
	BaseURL   string
	ChunkSize int
	// HTTPClient nil means a client with no timeout beyond the transport defaults.
	HTTPClient *http.Client
}

// Translate synthesizes speech through the Google Translate TTS endpoint.
// Text is split into short chunks, one GET per chunk, and the MP3 segments
// are concatenated in order.
type Translate struct {
	http      *http.Client
	baseURL   string
	chunkSize int
	logger    *slog.Logger
}

// NewTranslate creates a Translate synthesizer.
func NewTranslate(cfg TranslateConfig, logger *slog.Logger) *Translate {
	t := &Translate{
		http:      cfg.HTTPClient,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		chunkSize: cfg.ChunkSize,
		logger:    logger.With("system", "speech"),
	}
	if t.http == nil {
		t.http = &http.Client{}
	}
	if t.baseURL == "" {
		t.baseURL = defaultTranslateURL
	}
	if t.chunkSize <= 0 {
		t.chunkSize = defaultChunkSize
	}
	return t
}

// Synthesize returns the MP3 audio for text. Any failed chunk fails the whole call.
func (t *Translate) Synthesize(ctx context.Context, text string, opts Options) ([]byte, error) {
	chunks := Split(text, t.chunkSize)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	lang := opts.Lang
	if lang == "" {
		lang = LocaleUS
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := t.fetch(ctx, &audio, chunk, lang, opts.Slow, i, len(chunks)); err != nil {
			return nil, err
		}
	}

	t.logger.InfoContext(ctx, "speech synthesized",
		"lang", lang,
		"slow", opts.Slow,
		"chunks", len(chunks),
		"bytes", audio.Len(),
	)
	return audio.Bytes(), nil
}

func (t *Translate) fetch(ctx context.Context, dst *bytes.Buffer, chunk, lang string, slow bool, idx, total int) error {
	speed := "1"
	if slow {
		speed = "0.3"
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", chunk)
	q.Set("ttsspeed", speed)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrSynthesis, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", t.baseURL+"/")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: chunk %d/%d: status %d: %s", ErrSynthesis, idx+1, total, resp.StatusCode, bytes.TrimSpace(body))
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("%w: read chunk %d/%d: %v", ErrSynthesis, idx+1, total, err)
	}
	return nil
}
