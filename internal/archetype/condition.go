// Package archetype assigns decklists to named archetypes using the loaded
// rule sets: an ordered first-match rule engine, a card-overlap fallback, and
// a classification service that never fails.
package archetype

import (
	"github.com/deckwatch/deckwatch/internal/deck"
	"github.com/deckwatch/deckwatch/internal/rules"
)

// Evaluate applies one condition to a decklist. All kinds operate on card
// names only; copy counts never matter. An all-present kind with zero cards
// is vacuously true, matching how upstream rule sets behave (the loader warns
// about such conditions).
func Evaluate(c rules.Condition, d *deck.Decklist) bool {
	switch c.Kind {
	case rules.InMainboard:
		return allPresent(c.Cards, d.InMainboard)
	case rules.InSideboard:
		return allPresent(c.Cards, d.InSideboard)
	case rules.InMainOrSideboard:
		return allPresent(c.Cards, d.Contains)
	case rules.OneOrMoreInMainboard:
		return countPresent(c.Cards, d.InMainboard) >= 1
	case rules.OneOrMoreInSideboard:
		return countPresent(c.Cards, d.InSideboard) >= 1
	case rules.OneOrMoreInMainOrSideboard:
		return countPresent(c.Cards, d.Contains) >= 1
	case rules.TwoOrMoreInMainboard:
		return countPresent(c.Cards, d.InMainboard) >= 2
	case rules.TwoOrMoreInSideboard:
		return countPresent(c.Cards, d.InSideboard) >= 2
	case rules.TwoOrMoreInMainOrSideboard:
		return countPresent(c.Cards, d.Contains) >= 2
	case rules.DoesNotContain:
		return countPresent(c.Cards, d.Contains) == 0
	case rules.DoesNotContainMainboard:
		return countPresent(c.Cards, d.InMainboard) == 0
	case rules.DoesNotContainSideboard:
		return countPresent(c.Cards, d.InSideboard) == 0
	default:
		return false
	}
}

func allPresent(cards []string, has func(string) bool) bool {
	for _, card := range cards {
		if !has(card) {
			return false
		}
	}
	return true
}

// countPresent counts distinct listed names present, not card copies.
func countPresent(cards []string, has func(string) bool) int {
	n := 0
	for _, card := range cards {
		if has(card) {
			n++
		}
	}
	return n
}

// evaluateAll conjoins every condition of a rule or variant.
func evaluateAll(conds []rules.Condition, d *deck.Decklist) bool {
	for _, c := range conds {
		if !Evaluate(c, d) {
			return false
		}
	}
	return true
}
