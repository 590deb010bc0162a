package marketing

import "slices"

// Industry is the business category selected on the profile form.
type Industry string

// Industries offered on the profile form. The empty value means "not selected".
var Industries = []Industry{
	"",
	"E-commerce",
	"SaaS",
	"Healthcare",
	"Education",
	"Finance",
	"Retail",
	"Real Estate",
	"Food & Beverage",
	"Manufacturing",
	"Other",
}

// BudgetRange is one of the ordered monthly budget buckets.
type BudgetRange string

// BudgetRanges in ascending order.
var BudgetRanges = []BudgetRange{
	"Under $1,000",
	"$1,000-$5,000",
	"$5,000-$10,000",
	"$10,000-$50,000",
	"$50,000-$100,000",
	"$100,000+",
}

// DefaultBudgetRange is preselected on a new profile.
const DefaultBudgetRange BudgetRange = "Under $1,000"

// FocusAreas are the marketing disciplines a strategy can cover.
var FocusAreas = []string{
	"Social Media Marketing",
	"Content Marketing",
	"Email Marketing",
	"Search Engine Optimization (SEO)",
	"Pay-Per-Click Advertising (PPC)",
	"Influencer Marketing",
	"Video Marketing",
	"Affiliate Marketing",
}

// Timeframes a strategy can target.
var Timeframes = []string{
	"Short-term (1-3 months)",
	"Medium-term (3-6 months)",
	"Long-term (6-12 months)",
}

// CampaignObjectives a campaign plan can pursue.
var CampaignObjectives = []string{
	"Brand Awareness",
	"Lead Generation",
	"Sales/Conversions",
	"Customer Retention",
	"Product Launch",
	"Event Promotion",
}

// Channels a campaign can lead with.
var Channels = []string{
	"Social Media",
	"Email",
	"Content Marketing",
	"PPC",
	"SEO",
	"Events",
	"Influencer Marketing",
}

// Options lists every enumeration a form renderer needs.
type Options struct {
	Industries         []Industry    `json:"industries"`
	BudgetRanges       []BudgetRange `json:"budget_ranges"`
	FocusAreas         []string      `json:"focus_areas"`
	Timeframes         []string      `json:"timeframes"`
	CampaignObjectives []string      `json:"campaign_objectives"`
	Channels           []string      `json:"channels"`
	VoiceSpeeds        []Speed       `json:"voice_speeds"`
	VoiceGenders       []Gender      `json:"voice_genders"`
}

// AllOptions returns copies of every form enumeration.
func AllOptions() Options {
	return Options{
		Industries:         slices.Clone(Industries),
		BudgetRanges:       slices.Clone(BudgetRanges),
		FocusAreas:         slices.Clone(FocusAreas),
		Timeframes:         slices.Clone(Timeframes),
		CampaignObjectives: slices.Clone(CampaignObjectives),
		Channels:           slices.Clone(Channels),
		VoiceSpeeds:        slices.Clone(speeds),
		VoiceGenders:       slices.Clone(genders),
	}
}
