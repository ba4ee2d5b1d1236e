// Package deck defines the shared data model for tournament decklists and
// match results, plus the decoder for raw tournament records produced by the
// scraping layer.
package deck

import "sort"

// Decklist is one player's registered deck for a tournament entry.
// Card counts are always positive and card names unique within a zone.
// Decklists are read-only once built.
type Decklist struct {
	Player    string
	Mainboard map[string]int
	Sideboard map[string]int
	Record    *Record
}

// Record is an optional win/loss record attached to a decklist.
type Record struct {
	Wins   int
	Losses int
}

// InMainboard reports whether the named card appears in the mainboard.
func (d *Decklist) InMainboard(name string) bool {
	_, ok := d.Mainboard[name]
	return ok
}

// InSideboard reports whether the named card appears in the sideboard.
func (d *Decklist) InSideboard(name string) bool {
	_, ok := d.Sideboard[name]
	return ok
}

// Contains reports whether the named card appears in either zone.
func (d *Decklist) Contains(name string) bool {
	return d.InMainboard(name) || d.InSideboard(name)
}

// CardNames returns the distinct card names across both zones, sorted.
func (d *Decklist) CardNames() []string {
	seen := make(map[string]struct{}, len(d.Mainboard)+len(d.Sideboard))
	for name := range d.Mainboard {
		seen[name] = struct{}{}
	}
	for name := range d.Sideboard {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Outcome is the result of a completed match. Draws and incomplete results
// are excluded upstream and never reach this model.
type Outcome int

const (
	Player1Win Outcome = iota + 1
	Player2Win
)

// String returns the human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Player1Win:
		return "player1"
	case Player2Win:
		return "player2"
	default:
		return "invalid"
	}
}

// MatchResult is one completed match between two classified players.
// Archetype1 and Archetype2 always come from an archetype assignment; the
// "Unknown" bucket is a valid archetype here.
type MatchResult struct {
	Player1    string
	Player2    string
	Archetype1 string
	Archetype2 string
	Outcome    Outcome
}
