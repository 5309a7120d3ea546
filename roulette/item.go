package roulette

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemKind is a consumable held in a contestant's inventory.
type ItemKind byte

const (
	ItemNone       ItemKind = 0
	ItemScope      ItemKind = 1 // reveal the chambered shell
	ItemBlade      ItemKind = 2 // next live hit deals +1
	ItemCigarette  ItemKind = 3 // heal 1
	ItemLiquor     ItemKind = 4 // eject the chambered shell
	ItemRestraints ItemKind = 5 // opponent loses their next turn
)

// ItemKinds is the draw pool, each kind equally likely.
var ItemKinds = []ItemKind{ItemScope, ItemBlade, ItemCigarette, ItemLiquor, ItemRestraints}

var itemDisplayNames = map[ItemKind]string{
	ItemScope:      "Scope",
	ItemBlade:      "Blade",
	ItemCigarette:  "Cigarette",
	ItemLiquor:     "Liquor",
	ItemRestraints: "Restraints",
}

func (k ItemKind) String() string {
	if s, ok := itemDisplayNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Item(%d)", byte(k))
}

// Key is the lower-case identifier used in JSON and config files.
func (k ItemKind) Key() string { return strings.ToLower(k.String()) }

func ParseItemKind(raw string) (ItemKind, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, k := range ItemKinds {
		if k.Key() == raw {
			return k, nil
		}
	}
	return ItemNone, fmt.Errorf("unknown item %q", raw)
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Key())
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseItemKind(raw)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// itemEffect applies one item for holder. A non-nil error means the item was
// not used and no state changed.
type itemEffect func(g *Game, holder *Contestant) ([]Event, error)

var itemEffects = map[ItemKind]itemEffect{
	ItemScope:      useScope,
	ItemBlade:      useBlade,
	ItemCigarette:  useCigarette,
	ItemLiquor:     useLiquor,
	ItemRestraints: useRestraints,
}

func (g *Game) applyItemEffect(kind ItemKind, holder *Contestant) ([]Event, error) {
	effect, ok := itemEffects[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown item %d", ErrInvalidAction, kind)
	}
	return effect(g, holder)
}

func useScope(g *Game, holder *Contestant) ([]Event, error) {
	next, err := g.queue.PeekNext()
	if err != nil {
		return nil, &ItemPreconditionError{Item: ItemScope, Reason: "no shells left"}
	}
	g.nextShellKnownBlank = next.IsBlank()
	return []Event{{
		Type:  EventShellRevealed,
		Round: g.round,
		Chair: holder.Chair,
		Item:  ItemScope,
		Shell: next,
	}}, nil
}

func useBlade(g *Game, holder *Contestant) ([]Event, error) {
	if g.damageAmplified {
		return nil, &ItemPreconditionError{Item: ItemBlade, Reason: "already used"}
	}
	g.damageAmplified = true
	return []Event{{
		Type:  EventDamageAmplified,
		Round: g.round,
		Chair: holder.Chair,
		Item:  ItemBlade,
	}}, nil
}

func useCigarette(g *Game, holder *Contestant) ([]Event, error) {
	healed := holder.heal(1)
	return []Event{{
		Type:   EventHealed,
		Round:  g.round,
		Chair:  holder.Chair,
		Item:   ItemCigarette,
		Amount: healed,
		Health: holder.health,
	}}, nil
}

func useLiquor(g *Game, holder *Contestant) ([]Event, error) {
	ejected, err := g.queue.Eject()
	if err != nil {
		return nil, &ItemPreconditionError{Item: ItemLiquor, Reason: "no shells left"}
	}
	return []Event{{
		Type:  EventShellEjected,
		Round: g.round,
		Chair: holder.Chair,
		Item:  ItemLiquor,
		Shell: ejected,
	}}, nil
}

func useRestraints(g *Game, holder *Contestant) ([]Event, error) {
	if g.turnSkip != SkipNone {
		return nil, &ItemPreconditionError{Item: ItemRestraints, Reason: "already used"}
	}
	g.turnSkip = SkipPending
	return []Event{{
		Type:   EventRestraintsApplied,
		Round:  g.round,
		Chair:  holder.Chair,
		Target: otherChair(holder.Chair),
		Item:   ItemRestraints,
	}}, nil
}
