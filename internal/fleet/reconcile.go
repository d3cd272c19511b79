package fleet

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

const MaxBackgroundBots = 60

// Background returns the reconciler's working set in creation order.
func (r *Registry) Background() []*Bot {
	out := make([]*Bot, 0, len(r.bots))
	for _, b := range r.bots {
		if b.Background() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedSeq < out[j].CreatedSeq })
	return out
}

// Reconcile grows or shrinks the background population to clamp(target,
// 0, 60). Owner bots and the Super Agent's bot are never touched. Growth
// assigns duty round-robin and patrol section by index mod 8; shrink removes
// the most recently created background bots first. A failure on one bot does
// not block the rest.
func (r *Registry) Reconcile(target int) (created, removed int) {
	if target < 0 {
		target = 0
	}
	if target > MaxBackgroundBots {
		target = MaxBackgroundBots
	}

	background := r.Background()
	for len(background) > target {
		last := background[len(background)-1]
		if err := r.Remove(last.ID); err != nil {
			log.Warn().Err(err).Str("bot_id", last.ID).Msg("reconcile remove failed")
		} else {
			removed++
		}
		background = background[:len(background)-1]
	}

	for i := len(background); i < target; i++ {
		r.backgroundSeq++
		n := r.backgroundSeq
		duty := dutyForIndex(i)
		id := fmt.Sprintf("bot_bg_%d", n)
		spec := RegisterSpec{
			Name:                fmt.Sprintf("%s-%d", duty, n),
			Duty:                duty,
			PatrolSection:       sectionForIndex(i),
			ManagedBySuperAgent: true,
		}
		behavior := DutyBaseline(duty)
		behavior.PatrolSection = spec.PatrolSection
		if _, err := r.Register(id, behavior, spec); err != nil {
			log.Warn().Err(err).Str("bot_id", id).Msg("reconcile create failed")
			continue
		}
		created++
	}
	return created, removed
}

// EnsureSuperAgent guarantees exactly one elevated-aggression short-cooldown
// bot under the configured super-agent id. If the configured id changed, the
// old super bot is retired and a new one registered.
func (r *Registry) EnsureSuperAgent(botID string) (*Bot, error) {
	for _, b := range r.bots {
		if b.Duty == DutySuper && b.ID != botID {
			if err := r.Remove(b.ID); err != nil {
				log.Warn().Err(err).Str("bot_id", b.ID).Msg("retire stale super bot failed")
			}
		}
	}
	if existing, ok := r.bots[botID]; ok && existing.Duty == DutySuper {
		return existing, nil
	}
	return r.Register(botID, DutyBaseline(DutySuper), RegisterSpec{
		Name: "super-agent",
		Duty: DutySuper,
	})
}
