package meta

import (
	"sort"
	"time"

	"github.com/deckwatch/deckwatch/internal/archetype"
	"github.com/deckwatch/deckwatch/internal/stats"
)

// PlayerAssignment pairs a player with their classified archetype.
type PlayerAssignment struct {
	Player    string `json:"player"`
	Archetype string `json:"archetype"`
}

// ArchetypeReport is the per-archetype slice of the metagame report.
// Computed fresh per report generation, never mutated afterward.
type ArchetypeReport struct {
	Archetype     string     `json:"archetype"`
	TotalMatches  int        `json:"total_matches"`
	Wins          int        `json:"wins"`
	Losses        int        `json:"losses"`
	WinrateMean   float64    `json:"winrate_mean"`
	CILower       float64    `json:"ci_lower"`
	CIUpper       float64    `json:"ci_upper"`
	MetagameShare float64    `json:"metagame_share"`
	Tier          stats.Tier `json:"tier"`
}

// Matchup is one significant unordered pair, reported once with both
// directions' win rates so consumers can verify symmetry.
type Matchup struct {
	ArchetypeA string  `json:"archetype_a"`
	ArchetypeB string  `json:"archetype_b"`
	WinrateA   float64 `json:"winrate_a"`
	WinrateB   float64 `json:"winrate_b"`
	Matches    int     `json:"matches"`
}

// Report is the terminal output artifact handed to the visualization layer.
type Report struct {
	Format              string            `json:"format"`
	TotalPlayers        int               `json:"total_players"`
	Archetypes          []ArchetypeReport `json:"archetypes"`
	SignificantMatchups []Matchup         `json:"significant_matchups"`
	InsufficientSample  []string          `json:"insufficient_sample,omitempty"`
	GeneratedAt         time.Time         `json:"generated_at"`
}

// Options configures report generation.
type Options struct {
	// MinMatches is the minimum sample size for an archetype or pair to be
	// treated as statistically significant.
	MinMatches int
	// Confidence is the Wilson interval confidence level.
	Confidence float64
}

// DefaultMinMatches is the significance floor used when none is configured.
const DefaultMinMatches = 10

// Service builds metagame reports. It is a read-only pass over a finished
// aggregate and may run concurrently with nothing.
type Service struct {
	opts Options
}

// NewService returns a report builder, filling unset options with defaults.
func NewService(opts Options) *Service {
	if opts.MinMatches <= 0 {
		opts.MinMatches = DefaultMinMatches
	}
	if opts.Confidence <= 0 || opts.Confidence >= 1 {
		opts.Confidence = stats.DefaultConfidence
	}
	return &Service{opts: opts}
}

// BuildReport computes the per-archetype report from the classified
// population and the finished aggregate.
//
// Meta share counts distinct players per archetype over the whole classified
// population, including archetypes with zero recorded matches. Archetypes
// with at least one match get a Wilson interval and a tier; those without
// stay untiered with the widest interval. Archetypes below the significance
// floor remain in the share breakdown but are excluded from the significant
// matchup listing, as is the Unknown bucket, whose "matchups" compare
// against a grab bag rather than a strategy.
func (s *Service) BuildReport(format string, population []PlayerAssignment, agg *Aggregator) *Report {
	// Distinct players per archetype. A player appearing twice keeps their
	// first assignment.
	byPlayer := make(map[string]string, len(population))
	for _, pa := range population {
		if _, ok := byPlayer[pa.Player]; !ok {
			byPlayer[pa.Player] = pa.Archetype
		}
	}
	playersOf := make(map[string]int)
	for _, arch := range byPlayer {
		playersOf[arch]++
	}
	totalPlayers := len(byPlayer)

	// Union of archetypes from the population and the match stream.
	names := make(map[string]struct{}, len(playersOf))
	for arch := range playersOf {
		names[arch] = struct{}{}
	}
	for _, arch := range agg.Archetypes() {
		names[arch] = struct{}{}
	}

	report := &Report{
		Format:       format,
		TotalPlayers: totalPlayers,
		GeneratedAt:  time.Now(),
	}

	totals := make(map[string]int, len(names))
	for arch := range names {
		wins, losses := agg.Totals(arch)
		total := wins + losses
		totals[arch] = total

		ar := ArchetypeReport{
			Archetype:    arch,
			TotalMatches: total,
			Wins:         wins,
			Losses:       losses,
		}
		if totalPlayers > 0 {
			ar.MetagameShare = float64(playersOf[arch]) / float64(totalPlayers)
		}
		ar.CILower, ar.CIUpper = stats.WilsonInterval(wins, total, s.opts.Confidence)
		if total > 0 {
			ar.WinrateMean = float64(wins) / float64(total)
			ar.Tier = stats.TierFor(ar.CILower)
		}
		if total < s.opts.MinMatches {
			report.InsufficientSample = append(report.InsufficientSample, arch)
		}

		report.Archetypes = append(report.Archetypes, ar)
	}
	sort.Strings(report.InsufficientSample)

	// Default view: meta share descending, name ascending on ties.
	sort.Slice(report.Archetypes, func(i, j int) bool {
		a, b := report.Archetypes[i], report.Archetypes[j]
		if a.MetagameShare != b.MetagameShare {
			return a.MetagameShare > b.MetagameShare
		}
		return a.Archetype < b.Archetype
	})

	report.SignificantMatchups = s.significantMatchups(agg, totals)
	return report
}

// significantMatchups emits each qualifying unordered pair once, with
// (a, b) ordered lexicographically. Mirrors and the Unknown bucket carry no
// comparative information and are skipped.
func (s *Service) significantMatchups(agg *Aggregator, totals map[string]int) []Matchup {
	archetypes := agg.Archetypes()

	var matchups []Matchup
	for i, a := range archetypes {
		if a == archetype.UnknownArchetype || totals[a] < s.opts.MinMatches {
			continue
		}
		for _, b := range archetypes[i+1:] {
			if b == archetype.UnknownArchetype || totals[b] < s.opts.MinMatches {
				continue
			}

			forward := agg.PairRecord(a, b)
			reverse := agg.PairRecord(b, a)
			n := forward.Wins + forward.Losses
			if n < s.opts.MinMatches {
				continue
			}

			matchups = append(matchups, Matchup{
				ArchetypeA: a,
				ArchetypeB: b,
				WinrateA:   float64(forward.Wins) / float64(n),
				WinrateB:   float64(reverse.Wins) / float64(reverse.Wins+reverse.Losses),
				Matches:    n,
			})
		}
	}
	return matchups
}

// SortedByTier returns the tiering view: a copy of the archetype reports
// ordered by confidence-interval lower bound descending.
func (r *Report) SortedByTier() []ArchetypeReport {
	view := make([]ArchetypeReport, len(r.Archetypes))
	copy(view, r.Archetypes)
	sort.Slice(view, func(i, j int) bool {
		if view[i].CILower != view[j].CILower {
			return view[i].CILower > view[j].CILower
		}
		return view[i].Archetype < view[j].Archetype
	})
	return view
}
