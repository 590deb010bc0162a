// Package prompts turns the accumulated session context into model input.
// Every prompt is a fixed, ordered template: the task instructions, a labeled
// restatement of the business profile, the stage's own form inputs, earlier
// results the stage builds on, a media tally, and the required output
// structure. Building is pure and deterministic; caller text is never
// truncated and missing values render as empty fields.
package prompts

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
)

// Context is everything a prompt may draw on.
type Context struct {
	Profile  marketing.BusinessProfile
	Strategy marketing.StrategyInputs
	Campaign marketing.CampaignInputs
	Question marketing.QuestionInputs
	// Prior holds stored results of earlier stages.
	Prior map[marketing.Stage]string
	Media media.Counts
	// HasAttachment is set when the request carries a product image.
	HasAttachment bool
}

// Build composes the prompt for stage.
func Build(stage marketing.Stage, c Context) (string, error) {
	instr, err := Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("build %s prompt: %w", stage, err)
	}
	spec, err := Spec(stage)
	if err != nil {
		return "", fmt.Errorf("build %s prompt: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instr)
	sb.WriteString("\n")

	switch stage {
	case marketing.StageProfile:
		writeProfile(&sb, c.Profile)
	case marketing.StageStrategy:
		writeStrategy(&sb, c)
	case marketing.StageCampaign:
		writeCampaign(&sb, c)
	case marketing.StageAnalytics:
		writeAnalytics(&sb, c)
	}

	if c.Media.Total() > 0 {
		fmt.Fprintf(&sb,
			"\nUploaded media on file: %d image(s), %d video(s), %d audio file(s).\n",
			c.Media.Images, c.Media.Videos, c.Media.Audio,
		)
	}

	sb.WriteString("\n")
	if stage == marketing.StageProfile && c.HasAttachment {
		sb.WriteString("Also analyze the uploaded image of their product/service.\n")
	}
	sb.WriteString(spec)

	return sb.String(), nil
}

func field(sb *strings.Builder, label, value string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func section(sb *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(heading)
	sb.WriteString(":\n")
	sb.WriteString(body)
	sb.WriteString("\n")
}

func writeProfile(sb *strings.Builder, p marketing.BusinessProfile) {
	field(sb, "Business Name", p.BusinessName)
	field(sb, "Industry", string(p.Industry))
	field(sb, "Target Audience", p.TargetAudience)
	field(sb, "Marketing Goals", p.MarketingGoals)
	field(sb, "Budget Range", string(p.BudgetRange))
	field(sb, "Challenges", p.CurrentChallenges)
}

func writeStrategy(sb *strings.Builder, c Context) {
	p := c.Profile
	field(sb, "Business", p.BusinessName)
	field(sb, "Industry", string(p.Industry))
	field(sb, "Target Audience", p.TargetAudience)
	field(sb, "Goals", p.MarketingGoals)
	field(sb, "Budget", string(p.BudgetRange))
	field(sb, "Challenges", p.CurrentChallenges)

	sb.WriteString("\n")
	field(sb, "Focus on these marketing areas", strings.Join(c.Strategy.FocusAreas, ", "))
	field(sb, "Timeframe", c.Strategy.Timeframe)
	field(sb, "Competitors", c.Strategy.Competitors)

	section(sb, "Initial profile analysis", c.Prior[marketing.StageProfile])
}

func writeCampaign(sb *strings.Builder, c Context) {
	in := c.Campaign
	field(sb, "Business", c.Profile.BusinessName)
	field(sb, "Campaign Name", in.Name)
	field(sb, "Campaign Goal", in.Objective)
	field(sb, "Timeframe", in.StartDate+" to "+in.EndDate)
	field(sb, "Budget", in.BudgetLabel())
	field(sb, "Primary Channel", in.Channel)
	field(sb, "Description", in.Description)

	sb.WriteString("\nThis campaign should align with the overall marketing strategy for the business.\n")
	section(sb, "Overall marketing strategy", c.Prior[marketing.StageStrategy])
}

func writeAnalytics(sb *strings.Builder, c Context) {
	p := c.Profile
	sb.WriteString("\nBusiness Context:\n")
	field(sb, "Business", p.BusinessName)
	field(sb, "Industry", string(p.Industry))
	field(sb, "Target Audience", p.TargetAudience)

	sb.WriteString("\n")
	field(sb, "User Question", c.Question.Question)
}
