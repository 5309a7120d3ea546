package npc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed personas.json
var builtinPersonas []byte

// PersonaRegistry holds all NPC persona definitions.
type PersonaRegistry struct {
	mu       sync.RWMutex
	personas map[string]*NPCPersona
}

// NewRegistry creates an empty registry.
func NewRegistry() *PersonaRegistry {
	return &PersonaRegistry{
		personas: make(map[string]*NPCPersona),
	}
}

// NewDefaultRegistry returns a registry preloaded with the built-in personas.
func NewDefaultRegistry() *PersonaRegistry {
	r := NewRegistry()
	if err := r.LoadFromJSON(builtinPersonas); err != nil {
		panic(fmt.Sprintf("builtin personas: %v", err))
	}
	return r
}

// LoadFromFile loads personas from a JSON or YAML file, chosen by extension.
func (r *PersonaRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return r.LoadFromYAML(data)
	default:
		return r.LoadFromJSON(data)
	}
}

// LoadFromJSON loads personas from raw JSON bytes.
func (r *PersonaRegistry) LoadFromJSON(data []byte) error {
	var list []*NPCPersona
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas JSON: %w", err)
	}
	return r.add(list)
}

// LoadFromYAML loads personas from raw YAML bytes.
func (r *PersonaRegistry) LoadFromYAML(data []byte) error {
	var list []*NPCPersona
	if err := yaml.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse personas YAML: %w", err)
	}
	return r.add(list)
}

func (r *PersonaRegistry) add(list []*NPCPersona) error {
	for _, p := range list {
		if p == nil || p.ID == "" {
			continue
		}
		if err := validateProfile(p.Brain); err != nil {
			return fmt.Errorf("persona %s: %w", p.ID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range list {
		if p == nil || p.ID == "" {
			continue
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		r.personas[p.ID] = p
	}
	return nil
}

func validateProfile(p PolicyProfile) error {
	for name, v := range map[string]float64{
		"liquorChance":        p.LiquorChance,
		"pressChance":         p.PressChance,
		"cautiousPressChance": p.CautiousPressChance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// Get returns a persona by ID.
func (r *PersonaRegistry) Get(id string) *NPCPersona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.personas[id]
}

// All returns all personas sorted by ID.
func (r *PersonaRegistry) All() []*NPCPersona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*NPCPersona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the total number of registered personas.
func (r *PersonaRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.personas)
}
