// Command deckwatch runs tournament records through the archetype
// classification and metagame statistics pipeline from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deckwatch/deckwatch/internal/archetype"
	"github.com/deckwatch/deckwatch/internal/config"
	"github.com/deckwatch/deckwatch/internal/deck"
	"github.com/deckwatch/deckwatch/internal/meta"
	"github.com/deckwatch/deckwatch/internal/rules"
)

var (
	configPath   string
	rulesDir     string
	formatName   string
	minMatches   int
	outputFormat string
	byTier       bool
	watchRules   bool
)

var rootCmd = &cobra.Command{
	Use:   "deckwatch",
	Short: "Tournament archetype classification and metagame statistics",
	Long: `deckwatch classifies tournament decklists into archetypes using
per-format rule sets and aggregates match results into win rates,
Wilson confidence intervals, and tiers.`,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [tournament files...]",
	Short: "Build a metagame report from tournament records",
	Long: `Analyze classifies every deck in the given tournament record files,
aggregates their match results, and prints the metagame report.

Example usage:
  deckwatch analyze --rules ./rules --fmt modern challenge1.json challenge2.json
  deckwatch analyze --output json league.json   # machine-readable report
  deckwatch analyze --by-tier league.json       # tiering view`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [deck file]",
	Short: "Classify a single decklist",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.deckwatch/config.toml)")
	rootCmd.PersistentFlags().StringVar(&rulesDir, "rules", "", "Rules directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&formatName, "fmt", "", "Game format, e.g. modern (overrides config)")

	analyzeCmd.Flags().IntVar(&minMatches, "min-matches", 0, "Minimum matches for significance (overrides config)")
	analyzeCmd.Flags().StringVar(&outputFormat, "output", "table", "Output format: table, json")
	analyzeCmd.Flags().BoolVar(&byTier, "by-tier", false, "Sort the report by CI lower bound instead of meta share")
	analyzeCmd.Flags().BoolVar(&watchRules, "watch", false, "Reload rules when their files change")

	classifyCmd.Flags().StringVar(&outputFormat, "output", "table", "Output format: table, json")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(classifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides, and builds the rule
// provider and classification service.
func setup() (*config.Config, *rules.Provider, *archetype.Service, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, zerolog.Nop(), err
	}
	if rulesDir != "" {
		cfg.Rules.Dir = rulesDir
	}
	if formatName != "" {
		cfg.Rules.DefaultFormat = formatName
	}
	if minMatches > 0 {
		cfg.Analysis.MinMatches = minMatches
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, zerolog.Nop(), err
	}

	level, _ := zerolog.ParseLevel(cfg.App.LogLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	provider, err := rules.NewProvider(cfg.Rules.Dir, logger)
	if err != nil {
		return nil, nil, nil, logger, err
	}

	service := archetype.NewService(provider.Snapshot,
		archetype.WithOverlapThreshold(cfg.Analysis.FallbackOverlap),
		archetype.WithLogger(logger),
	)
	return cfg, provider, service, logger, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, provider, service, logger, err := setup()
	if err != nil {
		return err
	}

	if watchRules || cfg.Rules.Watch {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := provider.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Warn().Err(err).Msg("rules watcher stopped")
			}
		}()
	}

	format := cfg.Rules.DefaultFormat
	aggregator := meta.NewAggregator()
	var population []meta.PlayerAssignment
	archetypeOf := make(map[string]string)

	for _, path := range args {
		tournament, err := readTournament(path)
		if err != nil {
			return err
		}
		if tournament.Tournament.Format != "" {
			format = tournament.Tournament.Format
		}

		decks, warnings := tournament.Decklists()
		for _, w := range warnings {
			logger.Warn().Str("file", path).Msg(w.String())
		}

		for _, d := range decks {
			assignment := service.Classify(d, format)
			name := assignment.DisplayName()
			archetypeOf[d.Player] = name
			population = append(population, meta.PlayerAssignment{Player: d.Player, Archetype: name})
		}

		matches, warnings := tournament.Matches(func(player string) string {
			if name, ok := archetypeOf[player]; ok {
				return name
			}
			return archetype.UnknownArchetype
		})
		for _, w := range warnings {
			logger.Warn().Str("file", path).Msg(w.String())
		}
		for _, m := range matches {
			aggregator.Accumulate(m)
		}
	}

	report := meta.NewService(meta.Options{
		MinMatches: cfg.Analysis.MinMatches,
		Confidence: cfg.Analysis.Confidence,
	}).BuildReport(format, population, aggregator)

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(os.Stdout, report, byTier, cfg.Analysis.MinMatches)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, _, service, _, err := setup()
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open deck file: %w", err)
	}
	defer file.Close()

	var raw deck.RawDeck
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode deck file: %w", err)
	}

	wrapper := &deck.RawTournament{Decks: []deck.RawDeck{raw}}
	decks, _ := wrapper.Decklists()
	if len(decks) == 0 {
		return fmt.Errorf("deck file %s has no usable deck entry", args[0])
	}

	assignment := service.Classify(decks[0], cfg.Rules.DefaultFormat)

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"archetype": assignment.Name,
			"display":   assignment.DisplayName(),
			"method":    assignment.Method.String(),
			"colors":    assignment.Colors.Letters,
			"guild":     assignment.Colors.Guild,
		})
	}

	fmt.Printf("Archetype: %s\n", assignment.DisplayName())
	fmt.Printf("Method:    %s\n", assignment.Method)
	fmt.Printf("Colors:    %s (%s)\n", assignment.Colors.Letters, assignment.Colors.Guild)
	return nil
}

func readTournament(path string) (*deck.RawTournament, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tournament file: %w", err)
	}
	defer file.Close()

	tournament, err := deck.ParseTournament(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tournament, nil
}
