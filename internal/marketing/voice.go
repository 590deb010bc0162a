package marketing

import (
	"fmt"
	"slices"
)

// Speed is the narration pace selected by the user.
type Speed string

const (
	SpeedSlow   Speed = "Slow"
	SpeedNormal Speed = "Normal"
	SpeedFast   Speed = "Fast"
)

var speeds = []Speed{SpeedSlow, SpeedNormal, SpeedFast}

// Gender is the requested narrator voice. The synthesis backend has no
// gendered voices, so each value maps to a regional locale instead.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

var genders = []Gender{GenderFemale, GenderMale}

// VoiceConfig controls optional narration of generated results.
type VoiceConfig struct {
	Enabled bool   `json:"enabled"`
	Speed   Speed  `json:"speed"`
	Gender  Gender `json:"gender"`
}

// DefaultVoice is narration off, normal pace, female voice.
func DefaultVoice() VoiceConfig {
	return VoiceConfig{Speed: SpeedNormal, Gender: GenderFemale}
}

// Validate checks speed and gender against the accepted values.
func (v VoiceConfig) Validate() error {
	if !slices.Contains(speeds, v.Speed) {
		return invalid(fmt.Sprintf("unknown voice speed %q", v.Speed))
	}
	if !slices.Contains(genders, v.Gender) {
		return invalid(fmt.Sprintf("unknown voice gender %q", v.Gender))
	}
	return nil
}
