// Package media records metadata for files uploaded during a session.
// Records are append-only per kind and file content is never inspected.
package media

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/rohads/pkg/formatting"
)

// Kind tags an asset as image, video, or audio.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Kinds in listing order.
var Kinds = []Kind{KindImage, KindVideo, KindAudio}

// Validation errors for recorded assets.
var (
	ErrUnsupportedKind = errors.New("unsupported media kind")
	ErrInvalidSize     = errors.New("invalid media size")
)

// ParseKind validates s as a known kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindImage, KindVideo, KindAudio:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// KindOf infers the kind from a declared MIME type such as "image/png".
func KindOf(mimeType string) (Kind, error) {
	major, _, _ := strings.Cut(strings.TrimSpace(mimeType), "/")
	return ParseKind(major)
}

// Asset is the metadata of one uploaded file.
type Asset struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	SizeLabel  string    `json:"size_label"`
	Kind       Kind      `json:"kind"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Counts tallies recorded assets by kind.
type Counts struct {
	Images int `json:"images"`
	Videos int `json:"videos"`
	Audio  int `json:"audio"`
}

// Total is the number of assets across all kinds.
func (c Counts) Total() int {
	return c.Images + c.Videos + c.Audio
}

// Listing groups assets by kind in upload order.
type Listing struct {
	Images []Asset `json:"images"`
	Videos []Asset `json:"videos"`
	Audio  []Asset `json:"audio"`
	Counts Counts  `json:"counts"`
}

// Registry is an append-only, per-kind sequence of asset records.
// A nil *Registry behaves as an empty registry for reads.
type Registry struct {
	mu     sync.RWMutex
	assets map[Kind][]Asset
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{assets: make(map[Kind][]Asset)}
}

// Record appends an asset. When kind is empty it is inferred from mimeType.
func (r *Registry) Record(filename, mimeType string, size int64, kind Kind) (Asset, error) {
	var err error
	if kind == "" {
		kind, err = KindOf(mimeType)
	} else {
		kind, err = ParseKind(string(kind))
	}
	if err != nil {
		return Asset{}, err
	}
	if size < 0 {
		return Asset{}, fmt.Errorf("%w: %d bytes for %s", ErrInvalidSize, size, filename)
	}

	asset := Asset{
		ID:         uuid.New(),
		Filename:   filename,
		MimeType:   mimeType,
		Size:       size,
		SizeLabel:  formatting.FormatBytes(size, 1),
		Kind:       kind,
		RecordedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.assets[kind] = append(r.assets[kind], asset)
	r.mu.Unlock()

	return asset, nil
}

// List returns a copy of the assets of one kind in upload order.
func (r *Registry) List(kind Kind) []Asset {
	if r == nil {
		return []Asset{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Asset{}, r.assets[kind]...)
}

// Counts tallies the recorded assets.
func (r *Registry) Counts() Counts {
	if r == nil {
		return Counts{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Counts{
		Images: len(r.assets[KindImage]),
		Videos: len(r.assets[KindVideo]),
		Audio:  len(r.assets[KindAudio]),
	}
}

// Listing returns every asset grouped by kind.
func (r *Registry) Listing() Listing {
	return Listing{
		Images: r.List(KindImage),
		Videos: r.List(KindVideo),
		Audio:  r.List(KindAudio),
		Counts: r.Counts(),
	}
}
