// Package grading bounds raw model output and maps scores onto outcome tiers.
package grading

import "math"

// Score bounds and tier thresholds. Each band includes its lower bound.
const (
	MinScore          = 0.0
	MaxScore          = 100.0
	DistinctionCutoff = 80.0
	PassCutoff        = 60.0
)

// Tier is the outcome band of a normalized score.
type Tier string

const (
	TierDistinction Tier = "DISTINCTION"
	TierPass        Tier = "PASS"
	TierAtRisk      Tier = "AT_RISK"
)

// Severity hints how a collaborator should color a tier.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Info is the static presentation metadata attached to a tier.
type Info struct {
	Tier     Tier     `json:"tier"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Severity Severity `json:"severity"`
	Headline string   `json:"headline"`
	Summary  string   `json:"summary"`
	// MinScore is the inclusive lower bound of the band.
	MinScore float64 `json:"min_score"`
}

var tiers = map[Tier]Info{
	TierDistinction: {
		Tier:     TierDistinction,
		Label:    "DISTINCTION",
		Icon:     "●",
		Severity: SeveritySuccess,
		Headline: "Excellent trajectory.",
		Summary:  "Your current habits are tracking toward a distinction-level result. Maintain consistency and protect your key inputs.",
		MinScore: DistinctionCutoff,
	},
	TierPass: {
		Tier:     TierPass,
		Label:    "PASS",
		Icon:     "◐",
		Severity: SeverityWarning,
		Headline: "On track, room to grow.",
		Summary:  "You're projected to pass, but targeted improvements to 2–3 inputs could move you into the distinction bracket.",
		MinScore: PassCutoff,
	},
	TierAtRisk: {
		Tier:     TierAtRisk,
		Label:    "AT RISK",
		Icon:     "▲",
		Severity: SeverityDanger,
		Headline: "Intervention recommended.",
		Summary:  "Current behavioral signals indicate your score may fall below the passing threshold. Prioritize the actions below immediately.",
		MinScore: MinScore,
	},
}

// Normalize clamps a raw regression output into [MinScore, MaxScore].
// NaN has no meaningful position on the scale and maps to MinScore.
func Normalize(raw float64) float64 {
	if math.IsNaN(raw) {
		return MinScore
	}
	return math.Min(math.Max(raw, MinScore), MaxScore)
}

// Classify maps a normalized score to its tier.
func Classify(score float64) Tier {
	switch {
	case score >= DistinctionCutoff:
		return TierDistinction
	case score >= PassCutoff:
		return TierPass
	default:
		return TierAtRisk
	}
}

// Describe returns the presentation metadata for t.
func Describe(t Tier) Info {
	return tiers[t]
}

// Tiers lists every tier from best to worst.
func Tiers() []Info {
	return []Info{tiers[TierDistinction], tiers[TierPass], tiers[TierAtRisk]}
}
