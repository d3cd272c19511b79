package fleet

// BehaviorPatch is a partial behavior update; nil fields keep their current
// value.
type BehaviorPatch struct {
	Personality       *string  `json:"personality,omitempty"`
	Mode              *string  `json:"mode,omitempty"`
	ChallengesEnabled *bool    `json:"challenges_enabled,omitempty"`
	CooldownMs        *int     `json:"cooldown_ms,omitempty"`
	TargetPreference  *string  `json:"target_preference,omitempty"`
	PatrolSection     *int     `json:"patrol_section,omitempty"`
	PatrolRadius      *float64 `json:"patrol_radius,omitempty"`
	MinWager          *float64 `json:"min_wager,omitempty"`
	MaxWager          *float64 `json:"max_wager,omitempty"`
}

func (p BehaviorPatch) Apply(b Behavior) Behavior {
	if p.Personality != nil {
		b.Personality = *p.Personality
	}
	if p.Mode != nil {
		b.Mode = *p.Mode
	}
	if p.ChallengesEnabled != nil {
		b.ChallengesEnabled = *p.ChallengesEnabled
	}
	if p.CooldownMs != nil {
		b.CooldownMs = *p.CooldownMs
	}
	if p.TargetPreference != nil {
		b.TargetPreference = *p.TargetPreference
	}
	if p.PatrolSection != nil {
		b.PatrolSection = *p.PatrolSection
	}
	if p.PatrolRadius != nil {
		b.PatrolRadius = *p.PatrolRadius
	}
	if p.MinWager != nil {
		b.MinWager = *p.MinWager
	}
	if p.MaxWager != nil {
		b.MaxWager = *p.MaxWager
	}
	return b
}
