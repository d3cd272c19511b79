package superagent

import "arena-fleet/internal/wallet"

type Mode string

const (
	ModeHunter    Mode = "hunter"
	ModeDefensive Mode = "defensive"
	ModeBalanced  Mode = "balanced"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeHunter, ModeDefensive, ModeBalanced:
		return true
	}
	return false
}

type AdvisoryPolicy struct {
	MaxRequestsPerHour int `json:"max_requests_per_hour"`
	MaxTokensPerDay    int `json:"max_tokens_per_day"`
}

// Config is the singleton Super Agent policy. There is always exactly one
// instance and it always has an associated always-on bot.
type Config struct {
	BotID                   string         `json:"bot_id"`
	Mode                    Mode           `json:"mode"`
	ChallengesEnabled       bool           `json:"challenges_enabled"`
	DefaultCooldownMs       int            `json:"default_cooldown_ms"`
	DefaultTargetPreference string         `json:"default_target_preference"`
	Advisory                AdvisoryPolicy `json:"advisory"`
	Wallet                  wallet.Policy  `json:"wallet"`
}

func DefaultConfig() Config {
	return Config{
		BotID:                   "bot_super_agent",
		Mode:                    ModeBalanced,
		ChallengesEnabled:       true,
		DefaultCooldownMs:       5000,
		DefaultTargetPreference: "nearest",
		Advisory: AdvisoryPolicy{
			MaxRequestsPerHour: 30,
			MaxTokensPerDay:    20000,
		},
		Wallet: wallet.DefaultPolicy(),
	}
}

// Patch carries a partial config update; nil fields are left untouched.
type Patch struct {
	BotID                   *string         `json:"bot_id,omitempty"`
	Mode                    *Mode           `json:"mode,omitempty"`
	ChallengesEnabled       *bool           `json:"challenges_enabled,omitempty"`
	DefaultCooldownMs       *int            `json:"default_cooldown_ms,omitempty"`
	DefaultTargetPreference *string         `json:"default_target_preference,omitempty"`
	Advisory                *AdvisoryPolicy `json:"advisory,omitempty"`
	Wallet                  *wallet.Policy  `json:"wallet,omitempty"`
}

func (c *Config) Apply(p Patch) error {
	if p.BotID != nil && *p.BotID != "" {
		c.BotID = *p.BotID
	}
	if p.Mode != nil {
		if !p.Mode.Valid() {
			return ErrInvalidMode
		}
		c.Mode = *p.Mode
	}
	if p.ChallengesEnabled != nil {
		c.ChallengesEnabled = *p.ChallengesEnabled
	}
	if p.DefaultCooldownMs != nil {
		if *p.DefaultCooldownMs < 0 {
			return ErrInvalidCooldown
		}
		c.DefaultCooldownMs = *p.DefaultCooldownMs
	}
	if p.DefaultTargetPreference != nil {
		c.DefaultTargetPreference = *p.DefaultTargetPreference
	}
	if p.Advisory != nil {
		c.Advisory = *p.Advisory
	}
	if p.Wallet != nil {
		c.Wallet = *p.Wallet
	}
	return nil
}
