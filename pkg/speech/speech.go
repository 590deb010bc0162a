// Package speech synthesizes MP3 audio from text. It is the text-to-speech
// boundary: UTF-8 text plus a locale and speed flag in, MP3 bytes out.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// Locales accepted by the synthesis backend.
const (
	LocaleUS = "en-us"
	LocaleGB = "en-gb"
)

// MimeType is the content type of synthesized audio.
const MimeType = "audio/mp3"

var (
	// ErrEmptyText is returned when there is nothing to speak.
	ErrEmptyText = errors.New("no text to synthesize")
	// ErrSynthesis is returned when the backend rejects or fails a request.
	ErrSynthesis = errors.New("speech synthesis failed")
)

// Options selects the voice for one synthesis call.
type Options struct {
	Lang string `json:"lang"`
	Slow bool   `json:"slow"`
}

// Synthesizer converts text to MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)
}

// Encode returns audio as a base64 string.
func Encode(audio []byte) string {
	return base64.StdEncoding.EncodeToString(audio)
}

// Embed returns a self-contained HTML audio element with the audio inlined
// as a base64 data URI.
func Embed(audio []byte) string {
	return fmt.Sprintf(
		`<audio controls><source src="data:%s;base64,%s" type="%s"></audio>`,
		MimeType, Encode(audio), MimeType,
	)
}
