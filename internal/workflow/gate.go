package workflow

import "github.com/JaimeStill/rohads/internal/marketing"

// User-facing warnings for locked stages.
const (
	WarnProfileIncomplete = "Please complete your business profile first."
	WarnStrategyMissing   = "Please generate a marketing strategy first."
)

// CanEnter returns nil when stage may be entered given the profile and the
// stages completed so far, or a *LockedError naming what is missing.
// Strategy needs a business name and industry; Campaign needs a stored
// strategy. Completion is permanent, so a cleared profile never re-locks
// Campaign.
func CanEnter(stage marketing.Stage, profile marketing.BusinessProfile, completed marketing.StageSet) error {
	if _, err := marketing.ParseStage(string(stage)); err != nil {
		return err
	}

	switch stage {
	case marketing.StageStrategy:
		if !profile.Identified() {
			return &LockedError{Stage: stage, Warning: WarnProfileIncomplete}
		}
	case marketing.StageCampaign:
		if !completed.Has(marketing.StageStrategy) {
			return &LockedError{Stage: stage, Warning: WarnStrategyMissing}
		}
	}
	return nil
}

// Enterable reports whether CanEnter allows stage.
func Enterable(stage marketing.Stage, profile marketing.BusinessProfile, completed marketing.StageSet) bool {
	return CanEnter(stage, profile, completed) == nil
}

// Status reports availability of every stage in workflow order.
func Status(profile marketing.BusinessProfile, completed marketing.StageSet) []marketing.StageStatus {
	status := make([]marketing.StageStatus, 0, len(marketing.Stages))
	for _, stage := range marketing.Stages {
		s := marketing.StageStatus{
			Stage:     stage,
			Title:     stage.Title(),
			Enterable: true,
			Completed: completed.Has(stage),
		}
		if err := CanEnter(stage, profile, completed); err != nil {
			s.Enterable = false
			s.Warning = err.Error()
		}
		status = append(status, s)
	}
	return status
}
