package npc

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultRegistry_HasDealer(t *testing.T) {
	r := NewDefaultRegistry()
	if r.Count() < 1 {
		t.Fatalf("expected builtin personas")
	}
	p := r.Get("dealer")
	if p == nil {
		t.Fatalf("dealer persona missing")
	}
	if p.Brain != DefaultProfile() {
		t.Fatalf("dealer should use the default profile, got %+v", p.Brain)
	}
	lo, hi := p.ThinkRange()
	if lo != DefaultThinkMin || hi != DefaultThinkMax {
		t.Fatalf("unexpected think range %v..%v", lo, hi)
	}

	all := r.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("All not sorted: %s before %s", all[i-1].ID, all[i].ID)
		}
	}
}

func TestRegistry_LoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "personas.yaml")
	data := []byte(`
- id: rookie
  tagline: shaky hands
  brain:
    liquor_chance: 0.5
    press_chance: 0.5
    cautious_press_chance: 0.5
  think_min_ms: 100
  think_max_ms: 200
- name: nameless
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile err: %v", err)
	}
	if r.Count() != 1 {
		t.Fatalf("entries without id must be skipped, count=%d", r.Count())
	}
	p := r.Get("rookie")
	if p == nil || p.Name != "rookie" || p.Brain.PressChance != 0.5 {
		t.Fatalf("unexpected persona: %+v", p)
	}
	lo, hi := p.ThinkRange()
	if lo != 100*time.Millisecond || hi != 200*time.Millisecond {
		t.Fatalf("unexpected think range %v..%v", lo, hi)
	}
}

func TestRegistry_RejectsOutOfRangeProfile(t *testing.T) {
	r := NewRegistry()
	err := r.LoadFromJSON([]byte(`[{"id":"x","brain":{"pressChance":1.5}}]`))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if r.Count() != 0 {
		t.Fatalf("invalid batch must not be registered")
	}
}

func TestManager_SpawnAndThinkDelay(t *testing.T) {
	m := NewManager(NewDefaultRegistry(), 5, nil)
	if _, err := m.Spawn(1, "nobody"); err == nil {
		t.Fatalf("expected unknown persona error")
	}
	inst, err := m.Spawn(1, "gambler")
	if err != nil {
		t.Fatalf("Spawn err: %v", err)
	}
	lo, hi := inst.Persona.ThinkRange()
	for i := 0; i < 50; i++ {
		d := inst.ThinkDelay()
		if d < lo || d >= hi {
			t.Fatalf("delay %v outside [%v, %v)", d, lo, hi)
		}
	}

	def, err := m.Spawn(1, "")
	if err != nil || def.Persona.ID != "dealer" {
		t.Fatalf("empty persona should select dealer: %+v %v", def, err)
	}
}
