package npc

import (
	"math/rand"

	"buckshot-lite/roulette"
)

// RuleBrain is the fixed-priority shooting policy. Rules are checked in order
// and the first match wins.
type RuleBrain struct {
	Persona *NPCPersona
	rng     *rand.Rand
}

// NewRuleBrain creates a RuleBrain from a persona definition.
func NewRuleBrain(persona *NPCPersona, seed int64) *RuleBrain {
	if persona == nil {
		persona = DefaultPersona()
	}
	return &RuleBrain{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements BrainDecider.
func (b *RuleBrain) Decide(view GameView) Decision {
	p := b.Persona.Brain

	// 1. The chambered shell may be live: sharpen the blade, or fire at the
	// opponent and forget the reveal.
	if !view.NextShellKnownBlank {
		if slot := findItem(view.Items, roulette.ItemBlade); slot > 0 && !view.DamageAmplified {
			return Decision{Action: roulette.UseItem(slot), Rule: 1}
		}
		a := roulette.ShootOpponent()
		a.ClearReveal = true
		return Decision{Action: a, Rule: 1}
	}

	// 2. Restrain the opponent unless a skip is already in play.
	if slot := findItem(view.Items, roulette.ItemRestraints); slot > 0 && view.OpponentSkip == roulette.SkipNone {
		return Decision{Action: roulette.UseItem(slot), Rule: 2}
	}

	// 3. Look before shooting.
	if slot := findItem(view.Items, roulette.ItemScope); slot > 0 {
		return Decision{Action: roulette.UseItem(slot), Rule: 3}
	}

	// 4. Throw a shell away when blanks dominate.
	if slot := findItem(view.Items, roulette.ItemLiquor); slot > 0 &&
		view.RemainingBlank > view.RemainingLive && b.rng.Float64() < p.LiquorChance {
		return Decision{Action: roulette.UseItem(slot), Rule: 4}
	}

	// 5. Certain outcomes.
	if view.RemainingBlank == 0 {
		return Decision{Action: roulette.ShootOpponent(), Rule: 5}
	}
	if view.RemainingLive == 0 {
		return Decision{Action: roulette.ShootSelf(), Rule: 5}
	}

	// 6. Odds. When lives are not the majority, consider what the opponent
	// faces after a blank at them.
	total := view.RemainingLive + view.RemainingBlank
	liveRatio := float64(view.RemainingLive) / float64(total)
	if liveRatio > 0.5 {
		return b.coin(p.PressChance)
	}
	followUp := float64(view.RemainingLive) / float64(total-1)
	if followUp <= 0.5 {
		return Decision{Action: roulette.ShootOpponent(), Rule: 6}
	}
	return b.coin(p.CautiousPressChance)
}

// coin shoots the opponent with probability chance, otherwise self.
func (b *RuleBrain) coin(chance float64) Decision {
	if b.rng.Float64() < chance {
		return Decision{Action: roulette.ShootOpponent(), Rule: 6}
	}
	return Decision{Action: roulette.ShootSelf(), Rule: 6}
}

// findItem returns the 1-based slot of the first item of kind, or 0.
func findItem(items []roulette.ItemKind, kind roulette.ItemKind) int {
	for i, k := range items {
		if k == kind {
			return i + 1
		}
	}
	return 0
}
