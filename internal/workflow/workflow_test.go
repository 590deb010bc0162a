package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
	"github.com/JaimeStill/rohads/internal/narration"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/internal/workflow"
	"github.com/JaimeStill/rohads/pkg/generation"
	"github.com/JaimeStill/rohads/pkg/speech"
)

type mockGenerator struct {
	mu       sync.Mutex
	results  []generation.Result
	requests []generation.Request
}

func (m *mockGenerator) Generate(_ context.Context, req generation.Request) generation.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.results) == 0 {
		return generation.Result{Text: "generated text"}
	}
	res := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return res
}

func (m *mockGenerator) Transport() string { return "mock" }

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockGenerator) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1].Prompt
}

type mockSynthesizer struct {
	err   error
	calls int
}

func (m *mockSynthesizer) Synthesize(_ context.Context, _ string, _ speech.Options) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []byte("ID3"), nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRuntime(gen *mockGenerator, tts *mockSynthesizer) *workflow.Runtime {
	logger := discard()
	params := generation.DefaultParams()
	return &workflow.Runtime{
		Generator: gen,
		Narrator:  narration.New(gen, tts, params, logger),
		Params:    params,
		Logger:    logger,
	}
}

func newSession(t *testing.T, profile marketing.BusinessProfile) *sessions.Session {
	t.Helper()
	sess := sessions.New(time.Hour, discard()).Create()
	if err := sess.SetProfile(profile); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	return sess
}

var acme = marketing.BusinessProfile{BusinessName: "Acme", Industry: "SaaS"}

func strategyInputs() marketing.StrategyInputs {
	return marketing.StrategyInputs{
		FocusAreas: []string{"Content Marketing", "Email Marketing"},
		Timeframe:  "Short-term (1-3 months)",
	}
}

func campaignInputs() marketing.CampaignInputs {
	return marketing.CampaignInputs{
		Name:        "Spring Launch",
		Objective:   "Product Launch",
		StartDate:   "2026-03-01",
		EndDate:     "2026-04-30",
		Budget:      decimal.NewFromInt(5000),
		Channel:     "Email",
		Description: "Launch the spring product line",
	}
}

func TestCanEnter(t *testing.T) {
	withStrategy := marketing.StageSet(0).Add(marketing.StageStrategy)

	tests := []struct {
		name      string
		stage     marketing.Stage
		profile   marketing.BusinessProfile
		completed marketing.StageSet
		warning   string
	}{
		{"strategy identified", marketing.StageStrategy, acme, 0, ""},
		{"strategy empty name", marketing.StageStrategy, marketing.BusinessProfile{Industry: "SaaS"}, 0, workflow.WarnProfileIncomplete},
		{"strategy industry unset", marketing.StageStrategy, marketing.BusinessProfile{BusinessName: "Acme"}, 0, workflow.WarnProfileIncomplete},
		{"campaign without strategy", marketing.StageCampaign, acme, 0, workflow.WarnStrategyMissing},
		{"campaign with strategy", marketing.StageCampaign, acme, withStrategy, ""},
		{"campaign after profile cleared", marketing.StageCampaign, marketing.BusinessProfile{}, withStrategy, ""},
		{"profile always", marketing.StageProfile, marketing.BusinessProfile{}, 0, ""},
		{"analytics always", marketing.StageAnalytics, marketing.BusinessProfile{}, 0, ""},
		{"gallery always", marketing.StageGallery, marketing.BusinessProfile{}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := workflow.CanEnter(tt.stage, tt.profile, tt.completed)
			if tt.warning == "" {
				if err != nil {
					t.Fatalf("CanEnter = %v, want nil", err)
				}
				if !workflow.Enterable(tt.stage, tt.profile, tt.completed) {
					t.Error("Enterable = false")
				}
				return
			}

			if !errors.Is(err, workflow.ErrStageLocked) {
				t.Fatalf("CanEnter = %v, want ErrStageLocked", err)
			}
			if err.Error() != tt.warning {
				t.Errorf("warning = %q, want %q", err.Error(), tt.warning)
			}
		})
	}

	if err := workflow.CanEnter("checkout", acme, 0); !errors.Is(err, marketing.ErrValidation) {
		t.Errorf("unknown stage = %v, want ErrValidation", err)
	}
}

func TestStatus(t *testing.T) {
	status := workflow.Status(marketing.BusinessProfile{}, 0)
	if len(status) != len(marketing.Stages) {
		t.Fatalf("len = %d, want %d", len(status), len(marketing.Stages))
	}

	byStage := make(map[marketing.Stage]marketing.StageStatus)
	for _, s := range status {
		byStage[s.Stage] = s
	}

	if byStage[marketing.StageStrategy].Enterable {
		t.Error("strategy enterable with empty profile")
	}
	if byStage[marketing.StageStrategy].Warning != workflow.WarnProfileIncomplete {
		t.Errorf("strategy warning = %q", byStage[marketing.StageStrategy].Warning)
	}
	if !byStage[marketing.StageAnalytics].Enterable {
		t.Error("analytics not enterable")
	}
	if byStage[marketing.StageStrategy].Title != "Marketing Strategy" {
		t.Errorf("title = %q", byStage[marketing.StageStrategy].Title)
	}
}

func TestRunProfileRequiresIdentity(t *testing.T) {
	gen := &mockGenerator{}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, marketing.BusinessProfile{Industry: "SaaS"})

	_, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{Stage: marketing.StageProfile})
	if !errors.Is(err, marketing.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if gen.calls() != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls())
	}
	if sess.Completed().Has(marketing.StageProfile) {
		t.Error("profile marked completed")
	}
}

func TestRunRequiresIdentifiedProfile(t *testing.T) {
	tests := []struct {
		name string
		req  workflow.StageRequest
	}{
		{"analytics", workflow.StageRequest{
			Stage:    marketing.StageAnalytics,
			Question: marketing.QuestionInputs{Question: "How?"},
		}},
		{"campaign", workflow.StageRequest{
			Stage:    marketing.StageCampaign,
			Campaign: campaignInputs(),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			rt := newRuntime(gen, &mockSynthesizer{})
			sess := newSession(t, marketing.NewProfile())
			sess.Store(sessions.Artifact{Stage: marketing.StageStrategy, Text: "plan"})

			_, err := workflow.Run(context.Background(), rt, sess, tt.req)
			if !errors.Is(err, marketing.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if workflow.MapHTTPStatus(err) != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", workflow.MapHTTPStatus(err))
			}
			if gen.calls() != 0 {
				t.Errorf("generator calls = %d, want 0", gen.calls())
			}
			if _, ok := sess.Artifact(tt.req.Stage); ok {
				t.Error("result stored without an identified profile")
			}
		})
	}
}

func TestRunStrategyLocked(t *testing.T) {
	gen := &mockGenerator{}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, marketing.BusinessProfile{})

	_, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{
		Stage:    marketing.StageStrategy,
		Strategy: strategyInputs(),
	})
	if !errors.Is(err, workflow.ErrStageLocked) {
		t.Fatalf("err = %v, want ErrStageLocked", err)
	}
	if gen.calls() != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls())
	}
}

func TestRunStrategyUnlocksCampaign(t *testing.T) {
	gen := &mockGenerator{results: []generation.Result{
		{Text: "STRATEGY BODY"},
		{Text: "CAMPAIGN BODY"},
	}}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, acme)

	if workflow.Enterable(marketing.StageCampaign, sess.Profile(), sess.Completed()) {
		t.Fatal("campaign enterable before strategy")
	}

	out, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{
		Stage:    marketing.StageStrategy,
		Strategy: strategyInputs(),
	})
	if err != nil {
		t.Fatalf("strategy: %v", err)
	}
	if out.Artifact.Text != "STRATEGY BODY" {
		t.Errorf("artifact text = %q", out.Artifact.Text)
	}
	if out.Artifact.Filename != "Acme_marketing_strategy.txt" {
		t.Errorf("filename = %q", out.Artifact.Filename)
	}
	if out.Artifact.Transport != "mock" {
		t.Errorf("transport = %q", out.Artifact.Transport)
	}

	if err := sess.SetProfile(marketing.BusinessProfile{}); err != nil {
		t.Fatal(err)
	}
	if !workflow.Enterable(marketing.StageCampaign, sess.Profile(), sess.Completed()) {
		t.Fatal("campaign locked after clearing profile")
	}

	_, err = workflow.Run(context.Background(), rt, sess, workflow.StageRequest{
		Stage:    marketing.StageCampaign,
		Campaign: campaignInputs(),
	})
	if !errors.Is(err, marketing.ErrValidation) || errors.Is(err, workflow.ErrStageLocked) {
		t.Fatalf("campaign with cleared profile = %v, want ErrValidation", err)
	}
	if gen.calls() != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls())
	}

	if err := sess.SetProfile(acme); err != nil {
		t.Fatal(err)
	}

	out, err = workflow.Run(context.Background(), rt, sess, workflow.StageRequest{
		Stage:    marketing.StageCampaign,
		Campaign: campaignInputs(),
	})
	if err != nil {
		t.Fatalf("campaign: %v", err)
	}
	if out.Artifact.Filename != "Spring Launch_campaign_plan.txt" {
		t.Errorf("filename = %q", out.Artifact.Filename)
	}
	if !strings.Contains(gen.lastPrompt(), "STRATEGY BODY") {
		t.Error("campaign prompt does not include the stored strategy")
	}
	if !strings.Contains(gen.lastPrompt(), "Budget: $5000") {
		t.Error("campaign prompt missing budget label")
	}
}

func TestRunCampaignInvalidInputs(t *testing.T) {
	gen := &mockGenerator{}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, acme)
	sess.Store(sessions.Artifact{Stage: marketing.StageStrategy, Text: "plan"})

	in := campaignInputs()
	in.Description = ""

	_, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{
		Stage:    marketing.StageCampaign,
		Campaign: in,
	})
	if !errors.Is(err, marketing.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if gen.calls() != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls())
	}
}

func TestRunGenerationFailure(t *testing.T) {
	gen := &mockGenerator{results: []generation.Result{{
		Failure: &generation.Failure{Kind: generation.FailureMalformed, Message: "no candidates"},
	}}}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, acme)

	_, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{
		Stage:    marketing.StageAnalytics,
		Question: marketing.QuestionInputs{Question: "How do I grow?"},
	})

	var failure *generation.Failure
	if !errors.As(err, &failure) || failure.Kind != generation.FailureMalformed {
		t.Fatalf("err = %v, want malformed failure", err)
	}
	if workflow.MapHTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", workflow.MapHTTPStatus(err))
	}
	if _, ok := sess.Artifact(marketing.StageAnalytics); ok {
		t.Error("failed generation stored a result")
	}
}

func TestRunBusy(t *testing.T) {
	gen := &mockGenerator{}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, acme)

	if err := sess.TryAcquire(); err != nil {
		t.Fatal(err)
	}
	defer sess.Release()

	_, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{Stage: marketing.StageProfile})
	if !errors.Is(err, sessions.ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if gen.calls() != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls())
	}
}

func TestRunNotGenerating(t *testing.T) {
	rt := newRuntime(&mockGenerator{}, &mockSynthesizer{})
	sess := newSession(t, acme)

	_, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{Stage: marketing.StageGallery})
	if !errors.Is(err, workflow.ErrNotGenerating) {
		t.Fatalf("err = %v, want ErrNotGenerating", err)
	}
}

func TestRunWithNarration(t *testing.T) {
	gen := &mockGenerator{results: []generation.Result{
		{Text: "PROFILE ANALYSIS"},
		{Text: "Short digest."},
	}}
	tts := &mockSynthesizer{}
	rt := newRuntime(gen, tts)
	sess := newSession(t, acme)
	if err := sess.SetVoice(marketing.VoiceConfig{Enabled: true, Speed: marketing.SpeedSlow, Gender: marketing.GenderMale}); err != nil {
		t.Fatal(err)
	}

	out, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{Stage: marketing.StageProfile})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Narration == nil {
		t.Fatalf("narration missing: %s", out.NarrationError)
	}
	if out.Narration.Digest != "Short digest." {
		t.Errorf("digest = %q", out.Narration.Digest)
	}
	if out.Narration.Voice != (speech.Options{Lang: speech.LocaleGB, Slow: true}) {
		t.Errorf("voice = %+v", out.Narration.Voice)
	}
	if gen.calls() != 2 || tts.calls != 1 {
		t.Errorf("calls: generator %d, synthesizer %d", gen.calls(), tts.calls)
	}
}

func TestRunNarrationFailureNotFatal(t *testing.T) {
	gen := &mockGenerator{}
	tts := &mockSynthesizer{err: speech.ErrSynthesis}
	rt := newRuntime(gen, tts)
	sess := newSession(t, acme)
	if err := sess.SetVoice(marketing.VoiceConfig{Enabled: true, Speed: marketing.SpeedNormal, Gender: marketing.GenderFemale}); err != nil {
		t.Fatal(err)
	}

	out, err := workflow.Run(context.Background(), rt, sess, workflow.StageRequest{Stage: marketing.StageProfile})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Narration != nil {
		t.Error("narration present after synthesis failure")
	}
	if out.NarrationError == "" {
		t.Error("narration error not reported")
	}
	if !sess.Completed().Has(marketing.StageProfile) {
		t.Error("profile not completed")
	}
}

func TestNarrate(t *testing.T) {
	gen := &mockGenerator{}
	rt := newRuntime(gen, &mockSynthesizer{})
	sess := newSession(t, acme)

	if _, err := workflow.Narrate(context.Background(), rt, sess, marketing.StageStrategy); !errors.Is(err, workflow.ErrNoResult) {
		t.Errorf("no result = %v, want ErrNoResult", err)
	}

	sess.Store(sessions.Artifact{Stage: marketing.StageStrategy, Text: "plan"})
	if _, err := workflow.Narrate(context.Background(), rt, sess, marketing.StageStrategy); !errors.Is(err, workflow.ErrVoiceDisabled) {
		t.Errorf("voice off = %v, want ErrVoiceDisabled", err)
	}
	if gen.calls() != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls())
	}

	if err := sess.SetVoice(marketing.VoiceConfig{Enabled: true, Speed: marketing.SpeedNormal, Gender: marketing.GenderFemale}); err != nil {
		t.Fatal(err)
	}
	n, err := workflow.Narrate(context.Background(), rt, sess, marketing.StageStrategy)
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if n.MimeType != speech.MimeType {
		t.Errorf("mime = %q", n.MimeType)
	}
}

func TestDownload(t *testing.T) {
	sess := newSession(t, acme)

	if _, err := workflow.Download(sess, marketing.StageProfile); !errors.Is(err, workflow.ErrNoResult) {
		t.Errorf("err = %v, want ErrNoResult", err)
	}
	if _, err := workflow.Download(sess, marketing.StageGallery); !errors.Is(err, workflow.ErrNotGenerating) {
		t.Errorf("err = %v, want ErrNotGenerating", err)
	}

	sess.Store(sessions.Artifact{Stage: marketing.StageProfile, Text: "analysis", Filename: "Acme_profile_analysis.txt"})
	a, err := workflow.Download(sess, marketing.StageProfile)
	if err != nil || a.Text != "analysis" {
		t.Errorf("Download = %+v, %v", a, err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"locked", &workflow.LockedError{Warning: "x"}, http.StatusConflict},
		{"busy", sessions.ErrBusy, http.StatusConflict},
		{"voice disabled", workflow.ErrVoiceDisabled, http.StatusConflict},
		{"no result", workflow.ErrNoResult, http.StatusNotFound},
		{"session not found", sessions.ErrNotFound, http.StatusNotFound},
		{"validation", marketing.ErrValidation, http.StatusBadRequest},
		{"not generating", workflow.ErrNotGenerating, http.StatusBadRequest},
		{"media size", media.ErrInvalidSize, http.StatusBadRequest},
		{"failure", &generation.Failure{Kind: generation.FailureTransport}, http.StatusBadGateway},
		{"narration", narration.ErrNarration, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
