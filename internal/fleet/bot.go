package fleet

import "time"

type Duty string

const (
	DutySuper    Duty = "super"
	DutyDuelist  Duty = "duelist"
	DutyScout    Duty = "scout"
	DutySparrer  Duty = "sparrer"
	DutySentinel Duty = "sentinel"
	DutyOwner    Duty = "owner"
)

const (
	ModeActive  = "active"
	ModePassive = "passive"

	PatrolSections = 8
)

// Behavior is the only actor state the delegation engine and duty baselines
// may overwrite.
type Behavior struct {
	Personality       string  `json:"personality"`
	Mode              string  `json:"mode"`
	ChallengesEnabled bool    `json:"challenges_enabled"`
	CooldownMs        int     `json:"cooldown_ms"`
	TargetPreference  string  `json:"target_preference"`
	PatrolSection     int     `json:"patrol_section"`
	PatrolRadius      float64 `json:"patrol_radius"`
	MinWager          float64 `json:"min_wager"`
	MaxWager          float64 `json:"max_wager"`
}

type Bot struct {
	ID                  string    `json:"id"`
	OwnerProfileID      string    `json:"owner_profile_id,omitempty"`
	Name                string    `json:"name"`
	Duty                Duty      `json:"duty"`
	PatrolSection       int       `json:"patrol_section"`
	WalletID            string    `json:"wallet_id"`
	ManagedBySuperAgent bool      `json:"managed_by_super_agent"`
	CreatedSeq          uint64    `json:"created_seq"`
	CreatedAt           time.Time `json:"created_at"`

	actor *Actor
}

// System reports whether the bot is system-owned (no owning profile).
func (b *Bot) System() bool { return b.OwnerProfileID == "" }

// Background bots are the reconciler's working set: system-owned, neither
// owner-duty nor the Super Agent's own bot.
func (b *Bot) Background() bool {
	return b.System() && b.Duty != DutyOwner && b.Duty != DutySuper
}

func (b *Bot) Actor() *Actor { return b.actor }

func (b *Bot) Behavior() Behavior {
	if b.actor == nil {
		return Behavior{}
	}
	return b.actor.Behavior()
}
