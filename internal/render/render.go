/*
Package render
File: render.go
Description:
    Turns structured combat events into terminal-friendly lines. The engine
    never formats for display; the simulate command and any text client
    go through here.
*/

package render

import (
	"fmt"
	"strings"

	"github.com/everforgeworks/galaxies-pirates/internal/encounter"
)

// icons decorate each event type. Missing types render bare.
var icons = map[encounter.EventType]string{
	encounter.EventHeader:          "⚔️ ",
	encounter.EventRound:           "🔄",
	encounter.EventPlayerAttack:    "💥",
	encounter.EventEnemyAttack:     "🔥",
	encounter.EventEnemyDestroyed:  "💀",
	encounter.EventPlayerDestroyed: "☠️ ",
	encounter.EventVictory:         "🏆",
	encounter.EventDefeat:          "💔",
	encounter.EventError:           "⏱️ ",
	encounter.EventXP:              "⭐",
	encounter.EventLevelUp:         "🎉",
}

// Line renders one event.
func Line(ev encounter.CombatEvent) string {
	switch ev.Type {
	case encounter.EventDivider:
		return ev.Message
	case encounter.EventRound:
		return fmt.Sprintf("\n%s %s", icons[ev.Type], ev.Message)
	}
	if icon, ok := icons[ev.Type]; ok {
		return icon + " " + ev.Message
	}
	return ev.Message
}

// Text renders a whole log, one line per event.
func Text(log encounter.EventLog) string {
	var b strings.Builder
	for _, ev := range log {
		b.WriteString(Line(ev))
		b.WriteByte('\n')
	}
	return b.String()
}

// Briefing renders the pre-decision screen.
func Briefing(b *encounter.Briefing) string {
	if !b.Success {
		return b.Message + "\n"
	}
	var s strings.Builder
	fmt.Fprintf(&s, "🏴‍☠️ %s %s of the %s (tier %d)\n", b.CaptainTitle, b.CaptainName, b.FactionName, b.Tier)
	for _, h := range b.Fleet {
		fmt.Fprintf(&s, "  %-28s %-12s hull %4d/%-4d weapons %d\n", h.Name, h.Class, h.Hull, h.MaxHull, h.Weapons)
	}
	fmt.Fprintf(&s, "Difficulty: %s (win chance %d%%)\n", b.Preview.Difficulty, b.Preview.WinChance)
	fmt.Fprintf(&s, "Escape chance: %d%%\n", b.EscapeChance)
	return s.String()
}

// Result renders the full outcome, including any salvage or death report.
func Result(r *encounter.Result) string {
	if !r.Success {
		return r.Message + "\n"
	}
	var s strings.Builder
	s.WriteString(Text(r.Events))
	fmt.Fprintf(&s, "Outcome: %s\n", r.Outcome)
	if !r.Salvage.Empty() {
		s.WriteString("Salvage:\n")
		for _, m := range r.Salvage.Minerals {
			fmt.Fprintf(&s, "  %-12s %-3s x%-4d (~%d cr)\n", m.Name, m.Symbol, m.Quantity, m.Value)
		}
		for _, p := range r.Salvage.Plans {
			fmt.Fprintf(&s, "  📜 %s\n", p.Name)
		}
	}
	if r.Death != nil {
		fmt.Fprintf(&s, "Respawned at %s in a %s\n", r.Death.RespawnHub, r.Death.NewShip)
	}
	return s.String()
}
