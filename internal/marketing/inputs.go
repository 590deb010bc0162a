package marketing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for campaign dates.
const DateLayout = "2006-01-02"

// StrategyInputs are the form values for the Strategy stage.
type StrategyInputs struct {
	FocusAreas  []string `json:"focus_areas"`
	Timeframe   string   `json:"timeframe"`
	Competitors string   `json:"competitors"`
}

// Validate requires at least one known focus area.
func (in StrategyInputs) Validate() error {
	if len(in.FocusAreas) == 0 {
		return invalid("Please select at least one marketing focus area.")
	}
	for _, area := range in.FocusAreas {
		if !slices.Contains(FocusAreas, area) {
			return invalid(fmt.Sprintf("unknown focus area %q", area))
		}
	}
	if in.Timeframe != "" && !slices.Contains(Timeframes, in.Timeframe) {
		return invalid(fmt.Sprintf("unknown timeframe %q", in.Timeframe))
	}
	return nil
}

// CampaignInputs are the form values for the Campaign stage.
type CampaignInputs struct {
	Name        string          `json:"name"`
	Objective   string          `json:"objective"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Budget      decimal.Decimal `json:"budget"`
	Channel     string          `json:"channel"`
	Description string          `json:"description"`
}

// Validate requires name, objective, and description, and checks the
// optional dates, budget, and channel.
func (in CampaignInputs) Validate() error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Objective) == "" ||
		strings.TrimSpace(in.Description) == "" {
		return invalid("Please fill in all required fields.")
	}
	if !slices.Contains(CampaignObjectives, in.Objective) {
		return invalid(fmt.Sprintf("unknown campaign objective %q", in.Objective))
	}
	if in.Channel != "" && !slices.Contains(Channels, in.Channel) {
		return invalid(fmt.Sprintf("unknown channel %q", in.Channel))
	}
	if in.Budget.IsNegative() {
		return invalid("campaign budget cannot be negative")
	}

	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return invalid("campaign end date is before its start date")
	}
	return nil
}

// BudgetLabel renders the budget in dollars: "$5000", or "$5000.50" when
// the amount has cents.
func (in CampaignInputs) BudgetLabel() string {
	if in.Budget.IsInteger() {
		return "$" + in.Budget.String()
	}
	return "$" + in.Budget.StringFixed(2)
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, invalid(fmt.Sprintf("%s must be YYYY-MM-DD", field))
	}
	return t, nil
}

// QuestionInputs are the form values for the Analytics stage.
type QuestionInputs struct {
	Question string `json:"question"`
}

// Validate requires a non-blank question.
func (in QuestionInputs) Validate() error {
	if strings.TrimSpace(in.Question) == "" {
		return invalid("Please enter a marketing-related question.")
	}
	return nil
}
