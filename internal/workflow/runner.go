package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/narration"
	"github.com/JaimeStill/rohads/internal/prompts"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/pkg/formatting"
	"github.com/JaimeStill/rohads/pkg/generation"
)

// StageRequest carries the form inputs for one stage run. Only the inputs
// of the requested stage are read.
type StageRequest struct {
	Stage      marketing.Stage
	Strategy   marketing.StrategyInputs
	Campaign   marketing.CampaignInputs
	Question   marketing.QuestionInputs
	Attachment *generation.Attachment
}

// Outcome is the result of a successful stage run. A narration failure
// never fails the run; it is reported in NarrationError instead.
type Outcome struct {
	Artifact       sessions.Artifact    `json:"artifact"`
	Narration      *narration.Narration `json:"narration,omitempty"`
	NarrationError string               `json:"narration_error,omitempty"`
}

// Run executes one generating stage for the session: claim the session's
// generation slot, check the gate, validate inputs, build the prompt, and
// call the generator. On success the result is stored, the stage is marked
// completed, and the result is narrated when the session's voice is
// enabled. Gate and validation failures return before any network call.
func Run(ctx context.Context, rt *Runtime, sess *sessions.Session, req StageRequest) (*Outcome, error) {
	if !req.Stage.Generates() {
		return nil, fmt.Errorf("%w: %s", ErrNotGenerating, req.Stage)
	}

	if err := sess.TryAcquire(); err != nil {
		return nil, err
	}
	defer sess.Release()

	logger := rt.Logger.With("session", sess.ID(), "stage", req.Stage)

	profile := sess.Profile()
	if err := CanEnter(req.Stage, profile, sess.Completed()); err != nil {
		return nil, err
	}
	if err := validate(req, profile); err != nil {
		return nil, err
	}

	prompt, err := prompts.Build(req.Stage, prompts.Context{
		Profile:       profile,
		Strategy:      req.Strategy,
		Campaign:      req.Campaign,
		Question:      req.Question,
		Prior:         sess.Prior(),
		Media:         sess.Media().Counts(),
		HasAttachment: req.Attachment != nil,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := rt.Generator.Generate(ctx, generation.Request{
		Prompt:     prompt,
		Attachment: req.Attachment,
		Params:     rt.Params,
	})
	if !res.OK() {
		logger.WarnContext(ctx, "stage generation failed", "error", res.Err())
		return nil, res.Err()
	}

	artifact := sessions.Artifact{
		Stage:       req.Stage,
		Key:         req.Stage.ResultKey(),
		Title:       req.Stage.Title(),
		Text:        res.Text,
		Filename:    formatting.Filename(filenameStem(req, profile), req.Stage.FileSuffix()),
		Transport:   rt.Generator.Transport(),
		GeneratedAt: time.Now().UTC(),
	}
	sess.Store(artifact)

	logger.InfoContext(ctx, "stage generated",
		"transport", artifact.Transport,
		"chars", len(res.Text),
		"duration", time.Since(start),
	)

	out := &Outcome{Artifact: artifact}

	voice := sess.Voice()
	if voice.Enabled && rt.Narrator != nil {
		n, err := rt.Narrator.Narrate(ctx, res.Text, voice)
		if err != nil {
			out.NarrationError = err.Error()
		} else {
			out.Narration = n
		}
	}

	return out, nil
}

// Narrate produces a spoken digest of the stage's stored result.
// The session's voice must be enabled.
func Narrate(ctx context.Context, rt *Runtime, sess *sessions.Session, stage marketing.Stage) (*narration.Narration, error) {
	artifact, err := Download(sess, stage)
	if err != nil {
		return nil, err
	}

	voice := sess.Voice()
	if !voice.Enabled {
		return nil, ErrVoiceDisabled
	}
	if rt.Narrator == nil {
		return nil, fmt.Errorf("%w: no narrator configured", narration.ErrNarration)
	}

	if err := sess.TryAcquire(); err != nil {
		return nil, err
	}
	defer sess.Release()

	return rt.Narrator.Narrate(ctx, artifact.Text, voice)
}

// Download returns the stored result for stage.
func Download(sess *sessions.Session, stage marketing.Stage) (sessions.Artifact, error) {
	if !stage.Generates() {
		return sessions.Artifact{}, fmt.Errorf("%w: %s", ErrNotGenerating, stage)
	}
	artifact, ok := sess.Artifact(stage)
	if !ok {
		return sessions.Artifact{}, fmt.Errorf("%w: %s", ErrNoResult, stage)
	}
	return artifact, nil
}

// validate requires an identified profile for every generating stage, then
// checks the stage's own inputs.
func validate(req StageRequest, profile marketing.BusinessProfile) error {
	if err := profile.RequireIdentified(); err != nil {
		return err
	}
	switch req.Stage {
	case marketing.StageStrategy:
		return req.Strategy.Validate()
	case marketing.StageCampaign:
		return req.Campaign.Validate()
	case marketing.StageAnalytics:
		return req.Question.Validate()
	}
	return nil
}

// filenameStem names downloads after the campaign for campaign plans and
// after the business otherwise.
func filenameStem(req StageRequest, profile marketing.BusinessProfile) string {
	if req.Stage == marketing.StageCampaign {
		return strings.TrimSpace(req.Campaign.Name)
	}
	return strings.TrimSpace(profile.BusinessName)
}
