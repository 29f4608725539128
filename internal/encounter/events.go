/*
Package encounter
File: events.go
Description:
    The ordered, append-only event log every resolver writes to.
    Each entry is a category tag plus an already-templated message. How a
    category is decorated for display (icons, colors) is left to the caller;
    see internal/render.
*/

package encounter

import (
	"fmt"
	"strings"
)

// EventType tags a log entry.
type EventType string

const (
	EventHeader          EventType = "header"
	EventInfo            EventType = "info"
	EventDivider         EventType = "divider"
	EventRound           EventType = "round"
	EventPlayerAttack    EventType = "player_attack"
	EventEnemyAttack     EventType = "enemy_attack"
	EventEnemyDestroyed  EventType = "enemy_destroyed"
	EventPlayerDestroyed EventType = "player_destroyed"
	EventVictory         EventType = "victory"
	EventDefeat          EventType = "defeat"
	EventError           EventType = "error"
	EventXP              EventType = "xp"
	EventLevelUp         EventType = "levelup"
)

// dividerLine is drawn between the combat header, the rounds and the summary.
var dividerLine = strings.Repeat("─", 50)

// CombatEvent is one log record. Round is 0 outside the round loop.
type CombatEvent struct {
	Type    EventType `json:"type" msgpack:"type"`
	Round   int       `json:"round" msgpack:"round"`
	Message string    `json:"message" msgpack:"message"`
}

// EventLog is the encounter's audit trail.
type EventLog []CombatEvent

func (l *EventLog) add(round int, t EventType, format string, args ...any) {
	*l = append(*l, CombatEvent{Type: t, Round: round, Message: fmt.Sprintf(format, args...)})
}

func (l *EventLog) divider(round int) {
	*l = append(*l, CombatEvent{Type: EventDivider, Round: round, Message: dividerLine})
}

// Count returns how many entries carry the given tag.
func (l EventLog) Count(t EventType) int {
	n := 0
	for _, ev := range l {
		if ev.Type == t {
			n++
		}
	}
	return n
}
