// Package colors derives a normalized color identity and its canonical
// guild/shard name for a decklist from a card→color table.
package colors

import (
	"fmt"
	"strings"

	"github.com/deckwatch/deckwatch/internal/deck"
)

// Identity is the normalized color identity of a deck. Letters is the subset
// of "WUBRG" in canonical order; Guild is the canonical combination name.
type Identity struct {
	Letters string
	Guild   string
}

// canonicalOrder is the WUBRG wheel order used for identity strings.
const canonicalOrder = "WUBRG"

// combinationNames maps canonical letter subsets to their names: 5 mono
// colors, 10 guilds, 10 shards/wedges, 5 four-color names, five-color, and
// colorless. Unmapped combinations fall back to "{n}-Color".
var combinationNames = map[string]string{
	"":      "Colorless",
	"W":     "Mono-White",
	"U":     "Mono-Blue",
	"B":     "Mono-Black",
	"R":     "Mono-Red",
	"G":     "Mono-Green",
	"WU":    "Azorius",
	"WB":    "Orzhov",
	"WR":    "Boros",
	"WG":    "Selesnya",
	"UB":    "Dimir",
	"UR":    "Izzet",
	"UG":    "Simic",
	"BR":    "Rakdos",
	"BG":    "Golgari",
	"RG":    "Gruul",
	"WUB":   "Esper",
	"WUR":   "Jeskai",
	"WUG":   "Bant",
	"WBR":   "Mardu",
	"WBG":   "Abzan",
	"WRG":   "Naya",
	"UBR":   "Grixis",
	"UBG":   "Sultai",
	"URG":   "Temur",
	"BRG":   "Jund",
	"WUBR":  "Yore-Tiller",
	"WUBG":  "Witch-Maw",
	"WURG":  "Ink-Treader",
	"WBRG":  "Dune-Brood",
	"UBRG":  "Glint-Eye",
	"WUBRG": "Five-Color",
}

// colorKeywords are name fragments that mark an archetype name as already
// carrying its color. Substring matching here is fragile (an archetype named
// after a card containing "Red" would falsely suppress the prefix); rules can
// opt out of the heuristic entirely with their ColorAware flag.
var colorKeywords = func() []string {
	kw := []string{"White", "Blue", "Black", "Red", "Green", "Mono", "Colorless", "Multicolor"}
	for letters, name := range combinationNames {
		if len(letters) >= 2 {
			kw = append(kw, name)
		}
	}
	return kw
}()

// basicLandColors seeds the card→color table; overrides extend or replace it.
var basicLandColors = map[string]string{
	"Plains":                "W",
	"Island":                "U",
	"Swamp":                 "B",
	"Mountain":              "R",
	"Forest":                "G",
	"Snow-Covered Plains":   "W",
	"Snow-Covered Island":   "U",
	"Snow-Covered Swamp":    "B",
	"Snow-Covered Mountain": "R",
	"Snow-Covered Forest":   "G",
}

// dominanceShare is the fraction of colored-card weight above which a color
// counts toward the identity.
const dominanceShare = 0.10

// Resolver derives color identities using a card→color table. Multi-letter
// entries ("WU") mark hybrid or gold cards. Immutable after construction.
type Resolver struct {
	table map[string]string
}

// NewResolver builds a resolver from the basic-land table plus the given
// per-format overrides. Override colors win over built-ins.
func NewResolver(overrides map[string]string) *Resolver {
	table := make(map[string]string, len(basicLandColors)+len(overrides))
	for name, c := range basicLandColors {
		table[name] = c
	}
	for name, c := range overrides {
		table[name] = c
	}
	return &Resolver{table: table}
}

// Resolve computes the decklist's color identity. Every mainboard card found
// in the table contributes its count to each of its color letters; a color is
// part of the identity when its share of the total colored weight exceeds the
// dominance threshold.
func (r *Resolver) Resolve(d *deck.Decklist) Identity {
	weights := make(map[rune]int, 5)
	total := 0
	for name, count := range d.Mainboard {
		letters, ok := r.table[name]
		if !ok {
			continue
		}
		for _, letter := range letters {
			if !strings.ContainsRune(canonicalOrder, letter) {
				continue
			}
			weights[letter] += count
			total += count
		}
	}

	var sb strings.Builder
	if total > 0 {
		for _, letter := range canonicalOrder {
			if float64(weights[letter])/float64(total) > dominanceShare {
				sb.WriteRune(letter)
			}
		}
	}

	letters := sb.String()
	return Identity{Letters: letters, Guild: guildName(letters)}
}

// guildName returns the canonical name for a letter subset.
func guildName(letters string) string {
	if name, ok := combinationNames[letters]; ok {
		return name
	}
	return fmt.Sprintf("%d-Color", len(letters))
}

// Prefix composes the displayed archetype name, prefixing the guild name
// unless the base name already carries a color keyword or the rule declared
// itself color aware.
func Prefix(base string, id Identity, colorAware bool) string {
	if base == "" || colorAware || id.Guild == "" || id.Guild == "Colorless" {
		return base
	}

	lower := strings.ToLower(base)
	for _, kw := range colorKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return base
		}
	}
	return id.Guild + " " + base
}
