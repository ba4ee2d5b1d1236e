package deck

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawTournament is the wire shape handed over by the scraping layer.
type RawTournament struct {
	Tournament TournamentInfo `json:"tournament"`
	Decks      []RawDeck      `json:"decks"`
	Rounds     []RawRound     `json:"rounds"`
}

// TournamentInfo identifies the event a record belongs to.
type TournamentInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Format string `json:"format"`
}

// RawDeck is a scraped deck entry before validation.
type RawDeck struct {
	Player    string    `json:"player"`
	Mainboard []RawCard `json:"mainboard"`
	Sideboard []RawCard `json:"sideboard"`
}

// RawCard is a single scraped card entry.
type RawCard struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RawRound holds the matches of one swiss or elimination round.
type RawRound struct {
	Matches []RawMatch `json:"matches"`
}

// RawMatch is a scraped match with its game record, e.g. "2-1".
type RawMatch struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Result  string `json:"result"`
}

// Warning describes a skipped input entry. Malformed entries are never fatal;
// they are dropped and reported so the caller can log them.
type Warning struct {
	Player string
	Detail string
}

// String formats the warning for logging.
func (w Warning) String() string {
	if w.Player == "" {
		return w.Detail
	}
	return fmt.Sprintf("%s: %s", w.Player, w.Detail)
}

// ParseTournament decodes a raw tournament record from JSON.
func ParseTournament(r io.Reader) (*RawTournament, error) {
	var t RawTournament
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode tournament record: %w", err)
	}
	return &t, nil
}

// Decklists converts the raw deck entries into validated decklists.
// Card entries with a missing name or non-positive count are skipped and
// reported as warnings. Duplicate names within a zone merge their counts.
func (t *RawTournament) Decklists() ([]*Decklist, []Warning) {
	decks := make([]*Decklist, 0, len(t.Decks))
	var warnings []Warning

	for _, raw := range t.Decks {
		if raw.Player == "" {
			warnings = append(warnings, Warning{Detail: "deck entry with empty player name skipped"})
			continue
		}

		d := &Decklist{
			Player:    raw.Player,
			Mainboard: make(map[string]int, len(raw.Mainboard)),
			Sideboard: make(map[string]int, len(raw.Sideboard)),
		}
		warnings = appendZone(d.Mainboard, raw.Player, "mainboard", raw.Mainboard, warnings)
		warnings = appendZone(d.Sideboard, raw.Player, "sideboard", raw.Sideboard, warnings)
		decks = append(decks, d)
	}

	return decks, warnings
}

// appendZone folds raw card entries into a zone map, skipping malformed ones.
func appendZone(zone map[string]int, player, zoneName string, cards []RawCard, warnings []Warning) []Warning {
	for _, c := range cards {
		if c.Name == "" {
			warnings = append(warnings, Warning{Player: player, Detail: fmt.Sprintf("%s entry with empty card name skipped", zoneName)})
			continue
		}
		if c.Count <= 0 {
			warnings = append(warnings, Warning{Player: player, Detail: fmt.Sprintf("%s %q has non-positive count %d, skipped", zoneName, c.Name, c.Count)})
			continue
		}
		zone[c.Name] += c.Count
	}
	return warnings
}

// Matches extracts completed matches from the round data. archetypeOf maps a
// player name to their assigned archetype. Matches with a missing opponent
// (byes), an unparsable result, or a drawn game record are skipped.
func (t *RawTournament) Matches(archetypeOf func(player string) string) ([]MatchResult, []Warning) {
	var results []MatchResult
	var warnings []Warning

	for _, round := range t.Rounds {
		for _, m := range round.Matches {
			if m.Player1 == "" || m.Player2 == "" {
				continue // bye
			}

			outcome, ok := parseResult(m.Result)
			if !ok {
				warnings = append(warnings, Warning{Player: m.Player1, Detail: fmt.Sprintf("unusable match result %q vs %s, skipped", m.Result, m.Player2)})
				continue
			}

			results = append(results, MatchResult{
				Player1:    m.Player1,
				Player2:    m.Player2,
				Archetype1: archetypeOf(m.Player1),
				Archetype2: archetypeOf(m.Player2),
				Outcome:    outcome,
			})
		}
	}

	return results, warnings
}

// parseResult interprets a "W-L" game record from player1's perspective.
// Drawn records ("1-1") carry no winner and are rejected.
func parseResult(result string) (Outcome, bool) {
	left, right, found := strings.Cut(strings.TrimSpace(result), "-")
	if !found {
		return 0, false
	}

	wins, err1 := strconv.Atoi(strings.TrimSpace(left))
	losses, err2 := strconv.Atoi(strings.TrimSpace(right))
	if err1 != nil || err2 != nil || wins < 0 || losses < 0 {
		return 0, false
	}

	switch {
	case wins > losses:
		return Player1Win, true
	case losses > wins:
		return Player2Win, true
	default:
		return 0, false
	}
}
