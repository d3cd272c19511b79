package superagent

import "sort"

const (
	PersonalityAggressive   = "aggressive"
	PersonalityConservative = "conservative"
	PersonalitySocial       = "social"

	// cooldownFloorMs keeps staggered cooldowns from collapsing to zero when
	// the default is configured very low.
	cooldownFloorMs = 1000
	cooldownStepMs  = 250
)

// Directive is one bot's behavior assignment derived from the Super Agent
// policy. Nil wager fields mean "keep the duty baseline".
type Directive struct {
	BotID             string   `json:"bot_id"`
	Personality       string   `json:"personality"`
	CooldownMs        int      `json:"cooldown_ms"`
	TargetPreference  string   `json:"target_preference"`
	ChallengesEnabled bool     `json:"challenges_enabled"`
	MinWager          *float64 `json:"min_wager,omitempty"`
	MaxWager          *float64 `json:"max_wager,omitempty"`
}

// BuildWorkerDirectives is pure and deterministic: the same config and bot
// id set always yields the same assignment. The Super Agent's own id is
// excluded and the rest are processed in lexical order, so repeated "apply
// delegation" calls are idempotent.
func BuildWorkerDirectives(cfg Config, botIDs []string) []Directive {
	workers := make([]string, 0, len(botIDs))
	for _, id := range botIDs {
		if id == cfg.BotID {
			continue
		}
		workers = append(workers, id)
	}
	sort.Strings(workers)

	out := make([]Directive, 0, len(workers))
	for i, id := range workers {
		cooldown := cfg.DefaultCooldownMs + i*cooldownStepMs
		if cooldown < cooldownFloorMs {
			cooldown = cooldownFloorMs
		}
		out = append(out, Directive{
			BotID:             id,
			Personality:       personalityFor(cfg.Mode, i),
			CooldownMs:        cooldown,
			TargetPreference:  cfg.DefaultTargetPreference,
			ChallengesEnabled: cfg.ChallengesEnabled,
		})
	}
	return out
}

func personalityFor(mode Mode, i int) string {
	switch mode {
	case ModeHunter:
		if i%2 == 0 {
			return PersonalityAggressive
		}
		return PersonalitySocial
	case ModeDefensive:
		if i%2 == 0 {
			return PersonalityConservative
		}
		return PersonalitySocial
	default:
		switch i % 3 {
		case 0:
			return PersonalityAggressive
		case 1:
			return PersonalityConservative
		default:
			return PersonalitySocial
		}
	}
}
