package marketing

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage is one step of the workflow.
type Stage string

const (
	StageProfile   Stage = "profile"
	StageStrategy  Stage = "strategy"
	StageCampaign  Stage = "campaign"
	StageAnalytics Stage = "analytics"
	StageGallery   Stage = "gallery"
)

// Stages in workflow order.
var Stages = []Stage{
	StageProfile,
	StageStrategy,
	StageCampaign,
	StageAnalytics,
	StageGallery,
}

var stageMeta = map[Stage]struct {
	key    string
	suffix string
}{
	StageProfile:   {"profile_analysis", "profile_analysis.txt"},
	StageStrategy:  {"marketing_strategy", "marketing_strategy.txt"},
	StageCampaign:  {"campaign_plan", "campaign_plan.txt"},
	StageAnalytics: {"marketing_insights", "marketing_insights.txt"},
}

// ParseStage validates s as a known stage name.
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Stages {
		if st == known {
			return st, nil
		}
	}
	return "", invalid(fmt.Sprintf("unknown stage %q", s))
}

// Generates reports whether the stage produces a stored result.
func (s Stage) Generates() bool {
	_, ok := stageMeta[s]
	return ok
}

// ResultKey names the stored result of a generating stage.
func (s Stage) ResultKey() string {
	return stageMeta[s].key
}

// FileSuffix is appended to the download filename stem for the stage's result.
func (s Stage) FileSuffix() string {
	return stageMeta[s].suffix
}

// Title returns a display title such as "Marketing Strategy".
func (s Stage) Title() string {
	name := string(s)
	if key := s.ResultKey(); key != "" {
		name = strings.ReplaceAll(key, "_", " ")
	}
	return cases.Title(language.English).String(name)
}

// StageSet records completed stages. The zero value is empty.
type StageSet uint8

func (s StageSet) bit(st Stage) StageSet {
	for i, known := range Stages {
		if known == st {
			return 1 << i
		}
	}
	return 0
}

// Add returns the set with st included.
func (s StageSet) Add(st Stage) StageSet {
	return s | s.bit(st)
}

// Has reports whether st is in the set.
func (s StageSet) Has(st Stage) bool {
	b := s.bit(st)
	return b != 0 && s&b != 0
}

// List returns the members in workflow order.
func (s StageSet) List() []Stage {
	list := []Stage{}
	for _, st := range Stages {
		if s.Has(st) {
			list = append(list, st)
		}
	}
	return list
}

func (s StageSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

func (s *StageSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := StageSet(0)
	for _, name := range names {
		st, err := ParseStage(name)
		if err != nil {
			return err
		}
		set = set.Add(st)
	}
	*s = set
	return nil
}

// StageStatus reports whether a stage can be entered for the current
// session state. Warning is set when it cannot.
type StageStatus struct {
	Stage     Stage  `json:"stage"`
	Title     string `json:"title"`
	Enterable bool   `json:"enterable"`
	Completed bool   `json:"completed"`
	Warning   string `json:"warning,omitempty"`
}
