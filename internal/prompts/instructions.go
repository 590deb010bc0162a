package prompts

import "github.com/JaimeStill/rohads/internal/marketing"

const profileInstructions = "Analyze this business profile for marketing strategy opportunities:"

const strategyInstructions = "Create a comprehensive marketing strategy for:"

const campaignInstructions = "Create a detailed marketing campaign plan for:"

const analyticsInstructions = "You are a marketing AI assistant. Answer the following marketing question with expert advice."

var instructions = map[marketing.Stage]string{
	marketing.StageProfile:   profileInstructions,
	marketing.StageStrategy:  strategyInstructions,
	marketing.StageCampaign:  campaignInstructions,
	marketing.StageAnalytics: analyticsInstructions,
}

// Instructions returns the opening task line for a generating stage.
func Instructions(stage marketing.Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
