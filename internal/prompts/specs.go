package prompts

import "github.com/JaimeStill/rohads/internal/marketing"

const profileSpec = `Provide 3-5 initial marketing strategy recommendations based on this data.`

const strategySpec = `Please structure the strategy with these sections:
1. Executive Summary
2. Market Analysis
3. Target Audience Insights
4. Marketing Channels & Tactics
5. Content Strategy
6. Budget Allocation
7. Timeline & Implementation
8. Success Metrics & KPIs

Make the strategy specific, actionable, and tailored to their business profile.`

const campaignSpec = `Please include:
1. Campaign Brief (summary, goals, KPIs)
2. Target Audience Segments
3. Messaging & Creative Direction
4. Channel Strategy & Content Calendar
5. Budget Breakdown
6. Timeline with Key Milestones
7. Measurement Plan

Make the campaign plan specific, actionable, and provide examples of content or messaging where applicable.`

const analyticsSpec = `Provide a helpful, insightful, and actionable response with specific recommendations when applicable.`

var specs = map[marketing.Stage]string{
	marketing.StageProfile:   profileSpec,
	marketing.StageStrategy:  strategySpec,
	marketing.StageCampaign:  campaignSpec,
	marketing.StageAnalytics: analyticsSpec,
}

// Spec returns the required output structure for a generating stage.
func Spec(stage marketing.Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
