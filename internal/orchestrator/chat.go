package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"arena-fleet/internal/console"
	"arena-fleet/internal/superagent"

	"github.com/rs/zerolog/log"
)

type ChatResult struct {
	Reply    string           `json:"reply"`
	Actions  []console.Action `json:"actions"`
	Advisory string           `json:"advisory,omitempty"`
}

// Chat is the Ops Console entry point: parse the operator message into
// structured actions, apply each one, then optionally run the advisory
// step within its quota. The advisor call happens off the ledger lock.
func (o *Orchestrator) Chat(ctx context.Context, message string) *ChatResult {
	actions := console.Parse(message)
	res := &ChatResult{Actions: actions}
	if len(actions) == 0 {
		res.Reply = "No recognized commands.\n" + console.HelpText()
		return res
	}

	for _, a := range actions {
		line := o.applyAction(a)
		res.Reply += line + "\n"
		o.mu.Lock()
		o.memory.Append(fmt.Sprintf("op: %s -> %s", message, line))
		o.mu.Unlock()
	}

	o.mu.Lock()
	policy := o.super.Advisory
	quotaErr := o.usage.Allow(policy.MaxRequestsPerHour, policy.MaxTokensPerDay)
	o.mu.Unlock()
	if quotaErr != nil {
		if errors.Is(quotaErr, console.ErrQuotaExhausted) {
			res.Advisory = "advisory unavailable: quota exhausted"
		}
		return res
	}
	text, tokens, err := o.advisor.Advise(ctx, res.Reply)
	if err != nil {
		log.Warn().Err(err).Msg("advisory step failed")
		return res
	}
	if text != "" {
		o.mu.Lock()
		o.usage.Record(tokens)
		o.memory.Append("advisory: " + text)
		o.mu.Unlock()
		res.Advisory = text
	}
	return res
}

func (o *Orchestrator) applyAction(a console.Action) string {
	switch a.Kind {
	case console.ActionStatus:
		s := o.Status()
		return fmt.Sprintf("fleet: %d bots (%d background), %d wallets, %d open locks, mode %s",
			s.BotCount, s.BackgroundCount, s.WalletCount, s.OpenLocks, s.SuperAgent.Mode)
	case console.ActionSetMode:
		mode := superagent.Mode(a.Mode)
		if _, err := o.PatchSuperConfig(superagent.Patch{Mode: &mode}); err != nil {
			return "set mode failed: " + err.Error()
		}
		return "mode set to " + a.Mode
	case console.ActionSetTarget:
		if _, err := o.PatchSuperConfig(superagent.Patch{DefaultTargetPreference: &a.Target}); err != nil {
			return "set target failed: " + err.Error()
		}
		return "target preference set to " + a.Target
	case console.ActionSetCooldown:
		if _, err := o.PatchSuperConfig(superagent.Patch{DefaultCooldownMs: &a.CooldownMs}); err != nil {
			return "set cooldown failed: " + err.Error()
		}
		return fmt.Sprintf("default cooldown set to %dms", a.CooldownMs)
	case console.ActionToggleChallenges:
		if _, err := o.PatchSuperConfig(superagent.Patch{ChallengesEnabled: &a.Enabled}); err != nil {
			return "toggle challenges failed: " + err.Error()
		}
		return fmt.Sprintf("challenges enabled: %v", a.Enabled)
	case console.ActionToggleWallet:
		o.mu.Lock()
		o.super.Wallet.Enabled = a.Enabled
		o.ledger.SetPolicy(o.super.Wallet)
		o.mu.Unlock()
		o.scheduleSave()
		return fmt.Sprintf("wallet policy enabled: %v", a.Enabled)
	case console.ActionReconcile:
		created, removed, background := o.ReconcileFleet(a.Count)
		return fmt.Sprintf("fleet reconciled to %d background bots (+%d/-%d)", background, created, removed)
	case console.ActionApplyDelegation:
		n := o.ApplyDelegation()
		return fmt.Sprintf("delegation applied to %d bots", n)
	case console.ActionHelp:
		return console.HelpText()
	default:
		return "unknown action"
	}
}
