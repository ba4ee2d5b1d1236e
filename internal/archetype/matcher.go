package archetype

import (
	"github.com/deckwatch/deckwatch/internal/colors"
	"github.com/deckwatch/deckwatch/internal/deck"
	"github.com/deckwatch/deckwatch/internal/rules"
)

// Method records how an assignment was produced.
type Method int

const (
	MethodUnknown Method = iota
	MethodRuleMatch
	MethodVariant
	MethodFallback
)

// String returns the method name for logging.
func (m Method) String() string {
	switch m {
	case MethodRuleMatch:
		return "rule"
	case MethodVariant:
		return "variant"
	case MethodFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Assignment is the classification produced for one decklist. Immutable.
type Assignment struct {
	Name       string
	Method     Method
	Colors     colors.Identity
	colorAware bool
}

// DisplayName returns the archetype name with the guild prefix applied,
// unless the name already carries a color or the matching rule declared
// itself color aware.
func (a Assignment) DisplayName() string {
	return colors.Prefix(a.Name, a.Colors, a.colorAware)
}

// Match runs the decklist through the format's ordered rule list. The first
// rule whose conditions all hold wins; no backtracking, no scoring. A
// matching rule with variants resolves them with the same first-match logic,
// yielding "{Base} - {Variant}" when one applies.
func Match(d *deck.Decklist, formatRules []rules.Rule) (Assignment, bool) {
	for _, rule := range formatRules {
		if !evaluateAll(rule.Conditions, d) {
			continue
		}

		for _, variant := range rule.Variants {
			if evaluateAll(variant.Conditions, d) {
				return Assignment{
					Name:       rule.Name + " - " + variant.Name,
					Method:     MethodVariant,
					colorAware: rule.ColorAware,
				}, true
			}
		}

		return Assignment{
			Name:       rule.Name,
			Method:     MethodRuleMatch,
			colorAware: rule.ColorAware,
		}, true
	}

	return Assignment{}, false
}
