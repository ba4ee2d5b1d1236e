// Package meta folds classified match results into per-archetype counters
// and builds the final metagame report: win rates with Wilson confidence
// intervals, tiers, meta shares, and significant pairwise matchups.
package meta

import (
	"sort"

	"github.com/deckwatch/deckwatch/internal/deck"
)

type pairKey struct {
	A string
	B string
}

// Record holds the win/loss counters for one ordered archetype pair.
type Record struct {
	Wins   int
	Losses int
}

// Aggregator accumulates match results into ordered-pair counters. It is an
// ordinary single-writer fold; parallel producers each own an Aggregator and
// combine them with Merge once all accumulation is done. A fresh Aggregator
// is constructed per analysis run, there is no process-wide state.
type Aggregator struct {
	pairs map[pairKey]*Record
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{pairs: make(map[pairKey]*Record)}
}

// Accumulate folds one match into the counters. A win for archetype A over B
// increments wins(A,B) and losses(B,A) in the same step, so the mirror
// invariant wins(a,b) == losses(b,a) holds at every point. Mirror matches
// land on the diagonal as one win and one loss.
func (g *Aggregator) Accumulate(m deck.MatchResult) {
	switch m.Outcome {
	case deck.Player1Win:
		g.record(m.Archetype1, m.Archetype2).Wins++
		g.record(m.Archetype2, m.Archetype1).Losses++
	case deck.Player2Win:
		g.record(m.Archetype2, m.Archetype1).Wins++
		g.record(m.Archetype1, m.Archetype2).Losses++
	}
}

// Merge adds another aggregator's counters into this one. Counters are
// monotonically additive, so merging shards in any order yields the same
// aggregate.
func (g *Aggregator) Merge(other *Aggregator) {
	for key, rec := range other.pairs {
		mine := g.record(key.A, key.B)
		mine.Wins += rec.Wins
		mine.Losses += rec.Losses
	}
}

func (g *Aggregator) record(a, b string) *Record {
	key := pairKey{A: a, B: b}
	rec, ok := g.pairs[key]
	if !ok {
		rec = &Record{}
		g.pairs[key] = rec
	}
	return rec
}

// PairRecord returns the counters for the ordered pair (a, b). Callers
// rendering a full matchup grid read every cell through this.
func (g *Aggregator) PairRecord(a, b string) Record {
	if rec, ok := g.pairs[pairKey{A: a, B: b}]; ok {
		return *rec
	}
	return Record{}
}

// Totals sums an archetype's wins and losses across every opponent,
// including the mirror diagonal.
func (g *Aggregator) Totals(archetype string) (wins, losses int) {
	for key, rec := range g.pairs {
		if key.A == archetype {
			wins += rec.Wins
			losses += rec.Losses
		}
	}
	return wins, losses
}

// Archetypes returns every archetype seen in any match, sorted.
func (g *Aggregator) Archetypes() []string {
	seen := make(map[string]struct{}, len(g.pairs))
	for key := range g.pairs {
		seen[key.A] = struct{}{}
		seen[key.B] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
