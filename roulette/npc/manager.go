package npc

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"buckshot-lite/roulette"
)

// NPCInstance is a policy seated in a chair for one match.
type NPCInstance struct {
	Chair   uint16
	Persona *NPCPersona
	Brain   BrainDecider

	mu  sync.Mutex
	rng *rand.Rand
}

// ThinkDelay draws a fresh delay from the persona's think window.
func (inst *NPCInstance) ThinkDelay() time.Duration {
	lo, hi := inst.Persona.ThinkRange()
	if hi <= lo {
		return lo
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return lo + time.Duration(inst.rng.Int63n(int64(hi-lo)))
}

// Manager hands out NPC instances backed by a persona registry.
type Manager struct {
	registry *PersonaRegistry
	log      logrus.FieldLogger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewManager creates an NPC manager. seed 0 => time-based.
func NewManager(registry *PersonaRegistry, seed int64, log logrus.FieldLogger) *Manager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		registry: registry,
		log:      log.WithField("component", "npc"),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Registry returns the underlying PersonaRegistry.
func (m *Manager) Registry() *PersonaRegistry {
	return m.registry
}

// Spawn seats the persona with the given ID in chair. An empty ID selects
// the default persona.
func (m *Manager) Spawn(chair uint16, personaID string) (*NPCInstance, error) {
	persona := DefaultPersona()
	if personaID != "" {
		persona = m.registry.Get(personaID)
		if persona == nil {
			return nil, fmt.Errorf("unknown persona %q", personaID)
		}
	}

	m.mu.Lock()
	brainSeed := m.rng.Int63()
	delaySeed := m.rng.Int63()
	m.mu.Unlock()

	inst := &NPCInstance{
		Chair:   chair,
		Persona: persona,
		Brain:   NewRuleBrain(persona, brainSeed),
		rng:     rand.New(rand.NewSource(delaySeed)),
	}
	m.log.WithFields(logrus.Fields{"persona": persona.ID, "chair": chair}).Debug("spawned npc")
	return inst, nil
}

// OnTurn builds the view for inst and asks its brain for a decision.
func (m *Manager) OnTurn(inst *NPCInstance, snap roulette.Snapshot) Decision {
	decision := inst.Brain.Decide(BuildView(snap, inst.Chair))
	m.log.WithFields(logrus.Fields{
		"persona": inst.Persona.ID,
		"chair":   inst.Chair,
		"rule":    decision.Rule,
	}).Debugf("npc decides %v", decision.Action)
	return decision
}
