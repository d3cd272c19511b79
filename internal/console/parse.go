package console

import (
	"regexp"
	"strconv"
	"strings"
)

type ActionKind string

const (
	ActionStatus           ActionKind = "status"
	ActionSetMode          ActionKind = "set_mode"
	ActionSetTarget        ActionKind = "set_target"
	ActionSetCooldown      ActionKind = "set_cooldown"
	ActionToggleChallenges ActionKind = "toggle_challenges"
	ActionToggleWallet     ActionKind = "toggle_wallet"
	ActionReconcile        ActionKind = "reconcile"
	ActionApplyDelegation  ActionKind = "apply_delegation"
	ActionHelp             ActionKind = "help"
)

type Action struct {
	Kind       ActionKind `json:"kind"`
	Mode       string     `json:"mode,omitempty"`
	Target     string     `json:"target,omitempty"`
	CooldownMs int        `json:"cooldown_ms,omitempty"`
	Enabled    bool       `json:"enabled,omitempty"`
	Count      int        `json:"count,omitempty"`
}

type rule struct {
	pattern *regexp.Regexp
	build   func(m []string) Action
}

// Rules are evaluated in order against the lowercased input; every matching
// rule contributes one action. Unrecognized text yields no actions.
var rules = []rule{
	{regexp.MustCompile(`\b(status|report|how are things)\b`), func([]string) Action {
		return Action{Kind: ActionStatus}
	}},
	{regexp.MustCompile(`\b(?:mode|go)\s+(hunter|defensive|balanced)\b`), func(m []string) Action {
		return Action{Kind: ActionSetMode, Mode: m[1]}
	}},
	{regexp.MustCompile(`\btarget\s+(nearest|weakest|richest|random|intruder)\b`), func(m []string) Action {
		return Action{Kind: ActionSetTarget, Target: m[1]}
	}},
	{regexp.MustCompile(`\bcooldown\s+(\d+)\s*(ms|s|sec|seconds)?\b`), func(m []string) Action {
		n, _ := strconv.Atoi(m[1])
		if m[2] != "" && m[2] != "ms" {
			n *= 1000
		}
		return Action{Kind: ActionSetCooldown, CooldownMs: n}
	}},
	{regexp.MustCompile(`\b(enable|disable)\s+challenges\b`), func(m []string) Action {
		return Action{Kind: ActionToggleChallenges, Enabled: m[1] == "enable"}
	}},
	{regexp.MustCompile(`\b(enable|disable)\s+wallets?\b`), func(m []string) Action {
		return Action{Kind: ActionToggleWallet, Enabled: m[1] == "enable"}
	}},
	{regexp.MustCompile(`\b(?:reconcile|spawn|scale)(?:\s+(?:to|bots))?\s+(\d+)\s*(?:bots?)?\b`), func(m []string) Action {
		n, _ := strconv.Atoi(m[1])
		return Action{Kind: ActionReconcile, Count: n}
	}},
	{regexp.MustCompile(`\b(apply delegation|delegate|redelegate)\b`), func([]string) Action {
		return Action{Kind: ActionApplyDelegation}
	}},
	{regexp.MustCompile(`\bhelp\b`), func([]string) Action {
		return Action{Kind: ActionHelp}
	}},
}

// Parse turns a short operator message into an ordered list of structured
// actions. Pure: no side effects, no state.
func Parse(input string) []Action {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return nil
	}
	var out []Action
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			out = append(out, r.build(m))
		}
	}
	return out
}

// HelpText lists the recognized command shapes.
func HelpText() string {
	return strings.Join([]string{
		"status (fleet and ledger summary)",
		"mode hunter|defensive|balanced",
		"target nearest|weakest|richest|random|intruder",
		"cooldown <n> [ms|s]",
		"enable|disable challenges",
		"enable|disable wallet",
		"reconcile <n> bots",
		"apply delegation",
	}, "\n")
}
