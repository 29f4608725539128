/*
Package encounter
File: memory.go
Description:
    An in-process Repository. Used by the simulate command and by tests.
    Reads and writes hand out deep copies so callers see the same
    isolation they get from the SQLite store.
*/

package encounter

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/everforgeworks/galaxies-pirates/internal/game"
)

// MemoryRepository keeps players and encounters in maps.
type MemoryRepository struct {
	mu         sync.RWMutex
	players    map[int64]*game.Player
	encounters map[string]*Encounter
	nextPlayer int64
	nextShip   int64
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		players:    make(map[int64]*game.Player),
		encounters: make(map[string]*Encounter),
	}
}

func (m *MemoryRepository) CreatePlayer(_ context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPlayer++
	p.ID = m.nextPlayer
	if p.Ship != nil {
		m.nextShip++
		p.Ship.ID = m.nextShip
	}
	m.players[p.ID] = clonePlayer(p)
	return nil
}

func (m *MemoryRepository) LoadPlayer(_ context.Context, id int64) (*game.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return clonePlayer(p), nil
}

func (m *MemoryRepository) SavePlayer(_ context.Context, p *game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID]; !ok {
		return ErrPlayerNotFound
	}
	m.players[p.ID] = clonePlayer(p)
	return nil
}

func (m *MemoryRepository) CreateEncounter(_ context.Context, e *Encounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encounters[e.ID] = cloneEncounter(e)
	return nil
}

func (m *MemoryRepository) LoadEncounter(_ context.Context, id string) (*Encounter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.encounters[id]
	if !ok {
		return nil, ErrEncounterNotFound
	}
	return cloneEncounter(e), nil
}

func (m *MemoryRepository) PendingEncounter(_ context.Context, playerID int64) (*Encounter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.encounters {
		if e.PlayerID == playerID && e.Status == StatusPending {
			return cloneEncounter(e), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) SaveOutcome(_ context.Context, p *game.Player, e *Encounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID]; !ok {
		return ErrPlayerNotFound
	}
	cur, ok := m.encounters[e.ID]
	if !ok {
		return ErrEncounterNotFound
	}
	if cur.Status == StatusExpired {
		return ErrEncounterExpired
	}
	m.players[p.ID] = clonePlayer(p)
	m.encounters[e.ID] = cloneEncounter(e)
	return nil
}

func (m *MemoryRepository) ExpireEncounters(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.encounters {
		if e.Status == StatusPending && e.CreatedAt.Before(cutoff) {
			e.Status = StatusExpired
			n++
		}
	}
	return n, nil
}

func clonePlayer(p *game.Player) *game.Player {
	c := *p
	c.Plans = slices.Clone(p.Plans)
	if p.Ship != nil {
		s := *p.Ship
		s.Cargo = slices.Clone(p.Ship.Cargo)
		c.Ship = &s
	}
	return &c
}

func cloneEncounter(e *Encounter) *Encounter {
	c := *e
	c.Fleet = make([]game.Combatant, len(e.Fleet))
	for i, h := range e.Fleet {
		h.Cargo = slices.Clone(h.Cargo)
		c.Fleet[i] = h
	}
	c.Log = slices.Clone(e.Log)
	if e.Salvage != nil {
		s := SalvageSummary{
			Minerals: slices.Clone(e.Salvage.Minerals),
			Plans:    slices.Clone(e.Salvage.Plans),
		}
		c.Salvage = &s
	}
	return &c
}
