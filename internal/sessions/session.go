// Package sessions holds per-user workflow state. Each Session is an isolated
// context store: business profile, media registry, voice settings, stored
// stage results, and the set of completed stages. Sessions never share
// mutable state, and a session runs at most one generation at a time.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
)

// Artifact is a stored generation result.
type Artifact struct {
	Stage       marketing.Stage `json:"stage"`
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Text        string          `json:"text"`
	Filename    string          `json:"filename"`
	Transport   string          `json:"transport"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Session is one user's workflow state.
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	media     *media.Registry
	slot      *semaphore.Weighted

	mu        sync.RWMutex
	lastSeen  time.Time
	profile   marketing.BusinessProfile
	voice     marketing.VoiceConfig
	results   map[marketing.Stage]Artifact
	completed marketing.StageSet
}

func newSession(now time.Time) *Session {
	return &Session{
		id:        uuid.New(),
		createdAt: now,
		lastSeen:  now,
		media:     media.NewRegistry(),
		slot:      semaphore.NewWeighted(1),
		profile:   marketing.NewProfile(),
		voice:     marketing.DefaultVoice(),
		results:   make(map[marketing.Stage]Artifact),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Media returns the session's media registry.
func (s *Session) Media() *media.Registry {
	return s.media
}

func (s *Session) Profile() marketing.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile replaces the profile after validating its enumerated fields.
// Completed stages stay completed.
func (s *Session) SetProfile(p marketing.BusinessProfile) error {
	if p.BudgetRange == "" {
		p.BudgetRange = marketing.DefaultBudgetRange
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return nil
}

func (s *Session) Voice() marketing.VoiceConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voice
}

// SetVoice replaces the voice settings.
func (s *Session) SetVoice(v marketing.VoiceConfig) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.voice = v
	s.mu.Unlock()
	return nil
}

// Artifact returns the stored result for stage.
func (s *Session) Artifact(stage marketing.Stage) (Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.results[stage]
	return a, ok
}

// Store saves a result, replacing any earlier result for the same stage,
// and marks the stage completed.
func (s *Session) Store(a Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[a.Stage] = a
	s.completed = s.completed.Add(a.Stage)
}

// Completed returns the set of stages with a stored result.
func (s *Session) Completed() marketing.StageSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

// Prior returns the stored result text of every completed stage.
func (s *Session) Prior() map[marketing.Stage]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prior := make(map[marketing.Stage]string, len(s.results))
	for stage, a := range s.results {
		prior[stage] = a.Text
	}
	return prior
}

// TryAcquire claims the session's single generation slot without waiting.
func (s *Session) TryAcquire() error {
	if !s.slot.TryAcquire(1) {
		return ErrBusy
	}
	return nil
}

// Release frees the generation slot claimed by TryAcquire.
func (s *Session) Release() {
	s.slot.Release(1)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Snapshot is the client view of a session.
type Snapshot struct {
	ID        uuid.UUID                 `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Profile   marketing.BusinessProfile `json:"profile"`
	Voice     marketing.VoiceConfig     `json:"voice"`
	Media     media.Counts              `json:"media"`
	Completed marketing.StageSet        `json:"completed"`
	Stages    []marketing.StageStatus   `json:"stages,omitempty"`
	Artifacts []Artifact                `json:"artifacts"`
}

// StatusFunc reports per-stage availability for a profile and completed set.
type StatusFunc func(marketing.BusinessProfile, marketing.StageSet) []marketing.StageStatus

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifacts := []Artifact{}
	for _, stage := range marketing.Stages {
		if a, ok := s.results[stage]; ok {
			artifacts = append(artifacts, a)
		}
	}

	return Snapshot{
		ID:        s.id,
		CreatedAt: s.createdAt,
		Profile:   s.profile,
		Voice:     s.voice,
		Media:     s.media.Counts(),
		Completed: s.completed,
		Artifacts: artifacts,
	}
}
