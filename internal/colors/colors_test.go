package colors

import (
	"testing"

	"github.com/deckwatch/deckwatch/internal/deck"
)

func TestResolveBasicLands(t *testing.T) {
	tests := []struct {
		name        string
		mainboard   map[string]int
		wantLetters string
		wantGuild   string
	}{
		{
			name:        "mono red",
			mainboard:   map[string]int{"Mountain": 20, "Lightning Bolt": 4},
			wantLetters: "R",
			wantGuild:   "Mono-Red",
		},
		{
			name:        "azorius",
			mainboard:   map[string]int{"Island": 12, "Plains": 10},
			wantLetters: "WU",
			wantGuild:   "Azorius",
		},
		{
			name:        "jund",
			mainboard:   map[string]int{"Swamp": 8, "Mountain": 8, "Forest": 8},
			wantLetters: "BRG",
			wantGuild:   "Jund",
		},
		{
			name:        "five color",
			mainboard:   map[string]int{"Plains": 4, "Island": 4, "Swamp": 4, "Mountain": 4, "Forest": 4},
			wantLetters: "WUBRG",
			wantGuild:   "Five-Color",
		},
		{
			name:        "colorless",
			mainboard:   map[string]int{"Wastes": 20, "Karn Liberated": 4},
			wantLetters: "",
			wantGuild:   "Colorless",
		},
		{
			name:        "splash below dominance is dropped",
			mainboard:   map[string]int{"Forest": 20, "Plains": 2},
			wantLetters: "G",
			wantGuild:   "Mono-Green",
		},
		{
			name:        "snow basics count",
			mainboard:   map[string]int{"Snow-Covered Island": 18},
			wantLetters: "U",
			wantGuild:   "Mono-Blue",
		},
	}

	r := NewResolver(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := r.Resolve(&deck.Decklist{Mainboard: tt.mainboard})
			if id.Letters != tt.wantLetters || id.Guild != tt.wantGuild {
				t.Errorf("Resolve() = (%q, %q), want (%q, %q)", id.Letters, id.Guild, tt.wantLetters, tt.wantGuild)
			}
		})
	}
}

func TestResolveOverrides(t *testing.T) {
	r := NewResolver(map[string]string{
		"Steam Vents":    "UR",
		"Lightning Bolt": "R",
	})

	// The hybrid land weights both of its letters.
	id := r.Resolve(&deck.Decklist{Mainboard: map[string]int{"Steam Vents": 4, "Lightning Bolt": 4}})
	if id.Letters != "UR" {
		t.Errorf("letters = %q, want UR", id.Letters)
	}
	if id.Guild != "Izzet" {
		t.Errorf("guild = %q, want Izzet", id.Guild)
	}
}

func TestResolveCanonicalOrder(t *testing.T) {
	r := NewResolver(nil)

	// Heavier green must not move G ahead of W in the identity string.
	id := r.Resolve(&deck.Decklist{Mainboard: map[string]int{"Forest": 14, "Plains": 10}})
	if id.Letters != "WG" {
		t.Errorf("letters = %q, want WG (canonical order)", id.Letters)
	}
	if id.Guild != "Selesnya" {
		t.Errorf("guild = %q, want Selesnya", id.Guild)
	}
}

func TestGuildNameDefault(t *testing.T) {
	if got := guildName("XY"); got != "2-Color" {
		t.Errorf("guildName(XY) = %q, want 2-Color", got)
	}
}

func TestPrefix(t *testing.T) {
	monoRed := Identity{Letters: "R", Guild: "Mono-Red"}

	tests := []struct {
		name       string
		base       string
		id         Identity
		colorAware bool
		want       string
	}{
		{"plain name gets prefix", "Burn", monoRed, false, "Mono-Red Burn"},
		{"guild name suppresses prefix", "Izzet Phoenix", Identity{Letters: "UR", Guild: "Izzet"}, false, "Izzet Phoenix"},
		{"mono keyword suppresses prefix", "Mono-Red Burn", monoRed, false, "Mono-Red Burn"},
		{"color word suppresses prefix", "Red Prison", monoRed, false, "Red Prison"},
		{"shard name suppresses prefix", "Jund Midrange", Identity{Letters: "BRG", Guild: "Jund"}, false, "Jund Midrange"},
		{"color aware flag suppresses prefix", "Burn", monoRed, true, "Burn"},
		{"colorless identity never prefixes", "Eldrazi", Identity{Letters: "", Guild: "Colorless"}, false, "Eldrazi"},
		{"empty base stays empty", "", monoRed, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prefix(tt.base, tt.id, tt.colorAware); got != tt.want {
				t.Errorf("Prefix(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

// The substring heuristic is known to be fragile: any base name containing a
// color keyword suppresses the prefix, even when the keyword is part of a
// card name.
func TestPrefixHeuristicFragility(t *testing.T) {
	id := Identity{Letters: "BR", Guild: "Rakdos"}
	if got := Prefix("Redcap Melee", id, false); got != "Redcap Melee" {
		t.Errorf("Prefix(Redcap Melee) = %q; the documented heuristic keeps the base name", got)
	}
}
