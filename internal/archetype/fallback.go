package archetype

import (
	"github.com/deckwatch/deckwatch/internal/deck"
	"github.com/deckwatch/deckwatch/internal/rules"
)

// DefaultOverlapThreshold is the minimum fraction of a fallback definition's
// common cards a deck must contain to accept the fallback.
const DefaultOverlapThreshold = 0.10

// BestFallback scores the deck against every fallback definition and returns
// the name with the highest overlap at or above the threshold. Definitions
// are iterated in their stored name order, and a strictly-greater comparison
// keeps the first name on exact ties, so the result is deterministic.
func BestFallback(d *deck.Decklist, defs []rules.Fallback, threshold float64) (string, bool) {
	names := d.CardNames()

	best := ""
	bestOverlap := 0.0
	for _, def := range defs {
		shared := 0
		for _, name := range names {
			if _, ok := def.CommonCards[name]; ok {
				shared++
			}
		}

		overlap := float64(shared) / float64(len(def.CommonCards))
		if overlap >= threshold && overlap > bestOverlap {
			best = def.Name
			bestOverlap = overlap
		}
	}

	return best, best != ""
}
