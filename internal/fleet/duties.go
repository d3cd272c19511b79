package fleet

// dutyCycle is the round-robin order for background growth.
var dutyCycle = []Duty{DutyDuelist, DutyScout, DutySparrer, DutySentinel}

// DutyBaseline returns the fixed behavior archetype for a duty. Delegation
// directives are patched on top of this.
func DutyBaseline(d Duty) Behavior {
	switch d {
	case DutySuper:
		return Behavior{
			Personality:       "aggressive",
			Mode:              ModeActive,
			ChallengesEnabled: true,
			CooldownMs:        1500,
			TargetPreference:  "nearest",
			PatrolRadius:      60,
			MinWager:          5,
			MaxWager:          50,
		}
	case DutyDuelist:
		return Behavior{
			Personality:       "aggressive",
			Mode:              ModeActive,
			ChallengesEnabled: true,
			CooldownMs:        6000,
			TargetPreference:  "nearest",
			PatrolRadius:      25,
			MinWager:          5,
			MaxWager:          25,
		}
	case DutyScout:
		return Behavior{
			Personality:       "social",
			Mode:              ModeActive,
			ChallengesEnabled: false,
			CooldownMs:        9000,
			TargetPreference:  "random",
			PatrolRadius:      45,
			MinWager:          1,
			MaxWager:          5,
		}
	case DutySparrer:
		return Behavior{
			Personality:       "social",
			Mode:              ModeActive,
			ChallengesEnabled: true,
			CooldownMs:        7500,
			TargetPreference:  "weakest",
			PatrolRadius:      20,
			MinWager:          1,
			MaxWager:          10,
		}
	case DutySentinel:
		return Behavior{
			Personality:       "conservative",
			Mode:              ModePassive,
			ChallengesEnabled: true,
			CooldownMs:        12000,
			TargetPreference:  "intruder",
			PatrolRadius:      15,
			MinWager:          5,
			MaxWager:          15,
		}
	case DutyOwner:
		return Behavior{
			Personality:       "conservative",
			Mode:              ModePassive,
			ChallengesEnabled: false,
			CooldownMs:        10000,
			TargetPreference:  "nearest",
			PatrolRadius:      30,
			MinWager:          1,
			MaxWager:          10,
		}
	default:
		return Behavior{Mode: ModePassive, CooldownMs: 10000}
	}
}

func dutyForIndex(i int) Duty {
	return dutyCycle[i%len(dutyCycle)]
}

func sectionForIndex(i int) int {
	return i % PatrolSections
}
