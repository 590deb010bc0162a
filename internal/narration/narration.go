// Package narration turns a long generated result into a short spoken digest.
// A second generation call summarizes the text, then the summary is
// synthesized to MP3 under the session's voice settings. Audio is returned
// to the caller and never stored.
package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/prompts"
	"github.com/JaimeStill/rohads/pkg/generation"
	"github.com/JaimeStill/rohads/pkg/speech"
)

// ErrNarration wraps every narration failure.
var ErrNarration = errors.New("narration failed")

// locales approximates voice gender with a regional accent; the synthesis
// backend has no gendered voices.
var locales = map[marketing.Gender]string{
	marketing.GenderFemale: speech.LocaleUS,
	marketing.GenderMale:   speech.LocaleGB,
}

// VoiceOptions maps a voice config onto synthesis options.
// Fast has no backend equivalent and is spoken at normal speed.
func VoiceOptions(v marketing.VoiceConfig) speech.Options {
	lang, ok := locales[v.Gender]
	if !ok {
		lang = speech.LocaleUS
	}
	return speech.Options{
		Lang: lang,
		Slow: v.Speed == marketing.SpeedSlow,
	}
}

// Narration is a synthesized spoken digest.
type Narration struct {
	Digest      string         `json:"digest"`
	Audio       []byte         `json:"-"`
	AudioBase64 string         `json:"audio_base64"`
	MimeType    string         `json:"mime_type"`
	Embed       string         `json:"embed"`
	Voice       speech.Options `json:"voice"`
}

// Pipeline runs digest generation followed by speech synthesis.
type Pipeline struct {
	gen    generation.Client
	tts    speech.Synthesizer
	params generation.Params
	logger *slog.Logger
}

// New creates a Pipeline.
func New(gen generation.Client, tts speech.Synthesizer, params generation.Params, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		gen:    gen,
		tts:    tts,
		params: params,
		logger: logger.With("system", "narration"),
	}
}

// Narrate summarizes text and synthesizes the summary. When the digest
// generation fails no synthesis is attempted.
func (p *Pipeline) Narrate(ctx context.Context, text string, voice marketing.VoiceConfig) (*Narration, error) {
	res := p.gen.Generate(ctx, generation.Request{
		Prompt: prompts.Digest(text),
		Params: p.params,
	})
	if !res.OK() {
		p.logger.WarnContext(ctx, "digest generation failed", "error", res.Err())
		return nil, fmt.Errorf("%w: digest: %w", ErrNarration, res.Err())
	}

	opts := VoiceOptions(voice)
	audio, err := p.tts.Synthesize(ctx, res.Text, opts)
	if err != nil {
		p.logger.WarnContext(ctx, "speech synthesis failed", "error", err)
		return nil, fmt.Errorf("%w: synthesis: %w", ErrNarration, err)
	}

	return &Narration{
		Digest:      res.Text,
		Audio:       audio,
		AudioBase64: speech.Encode(audio),
		MimeType:    speech.MimeType,
		Embed:       speech.Embed(audio),
		Voice:       opts,
	}, nil
}
