package config

import "strings"

// SpeedPreset represents a named viewer playback speed.
type SpeedPreset string

const (
	SpeedSlow    SpeedPreset = "slow"
	SpeedNormal  SpeedPreset = "normal"
	SpeedFast    SpeedPreset = "fast"
	SpeedInstant SpeedPreset = "instant"
)

// SpeedPresets lists the presets from slowest to fastest.
var SpeedPresets = []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast, SpeedInstant}

// TickRateForPreset returns the steps per second for a preset.
func TickRateForPreset(preset SpeedPreset) int {
	switch preset {
	case SpeedSlow:
		return 4
	case SpeedFast:
		return 30
	case SpeedInstant:
		return 120
	default:
		return 12
	}
}

// ParseSpeedPreset accepts a preset name, case-insensitively.
func ParseSpeedPreset(s string) (SpeedPreset, bool) {
	for _, p := range SpeedPresets {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return SpeedNormal, false
}

func (p SpeedPreset) index() int {
	for i, s := range SpeedPresets {
		if s == p {
			return i
		}
	}
	return 1
}

// Faster returns the next faster preset, saturating at instant.
func (p SpeedPreset) Faster() SpeedPreset {
	return SpeedPresets[min(p.index()+1, len(SpeedPresets)-1)]
}

// Slower returns the next slower preset, saturating at slow.
func (p SpeedPreset) Slower() SpeedPreset {
	return SpeedPresets[max(p.index()-1, 0)]
}
