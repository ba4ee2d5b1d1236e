package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// On-disk layout, one directory per format:
//
//	<dir>/<format>/archetypes/*.json   one rule per file
//	<dir>/<format>/fallbacks/*.json    one fallback definition per file
//	<dir>/<format>/color_overrides.json (optional)

// ConfigError reports a rule configuration file that could not be loaded.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type conditionFile struct {
	Type  string   `json:"Type"`
	Cards []string `json:"Cards"`
}

type variantFile struct {
	Name       string          `json:"Name"`
	Conditions []conditionFile `json:"Conditions"`
}

type ruleFile struct {
	Name       string          `json:"Name"`
	Priority   int             `json:"Priority"`
	ColorAware bool            `json:"ColorAware"`
	Conditions []conditionFile `json:"Conditions"`
	Variants   []variantFile   `json:"Variants"`
}

type fallbackFile struct {
	Name        string   `json:"Name"`
	CommonCards []string `json:"CommonCards"`
}

type colorEntry struct {
	Name  string `json:"Name"`
	Color string `json:"Color"`
}

type overridesFile struct {
	Lands    []colorEntry `json:"Lands"`
	NonLands []colorEntry `json:"NonLands"`
}

// Load reads every format directory under dir into a new immutable Store.
// Unparsable files fail the whole load so configuration problems surface
// once, at startup, instead of as silent misclassification. Suspicious but
// legal constructs (a condition with zero cards evaluates vacuously true)
// are logged as warnings and kept.
func Load(dir string, logger zerolog.Logger) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rules directory: %w", err)
	}

	store := &Store{formats: make(map[string]*FormatRules)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		format := entry.Name()
		fr, err := loadFormat(filepath.Join(dir, format), format, logger)
		if err != nil {
			return nil, err
		}
		store.formats[format] = fr
	}

	return store, nil
}

func loadFormat(dir, format string, logger zerolog.Logger) (*FormatRules, error) {
	fr := &FormatRules{Format: format, ColorOverrides: make(map[string]string)}

	ruleFiles, err := jsonFiles(filepath.Join(dir, "archetypes"))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(ruleFiles))
	for _, path := range ruleFiles {
		rule, err := loadRule(path, format, logger)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[rule.Name]; dup {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("archetype %q already defined in %s", rule.Name, prev)}
		}
		seen[rule.Name] = path
		fr.Rules = append(fr.Rules, rule)
	}

	// First-match-wins must not depend on directory listing order.
	sort.SliceStable(fr.Rules, func(i, j int) bool {
		if fr.Rules[i].Priority != fr.Rules[j].Priority {
			return fr.Rules[i].Priority < fr.Rules[j].Priority
		}
		return fr.Rules[i].Name < fr.Rules[j].Name
	})

	fallbackFiles, err := jsonFiles(filepath.Join(dir, "fallbacks"))
	if err != nil {
		return nil, err
	}
	for _, path := range fallbackFiles {
		fb, err := loadFallback(path, format)
		if err != nil {
			return nil, err
		}
		fr.Fallbacks = append(fr.Fallbacks, fb)
	}
	sort.Slice(fr.Fallbacks, func(i, j int) bool {
		return fr.Fallbacks[i].Name < fr.Fallbacks[j].Name
	})

	if err := loadOverrides(filepath.Join(dir, "color_overrides.json"), fr.ColorOverrides); err != nil {
		return nil, err
	}

	return fr, nil
}

// jsonFiles lists the .json files under dir, sorted by name. A missing
// directory is not an error; a format may carry rules without fallbacks or
// the other way around.
func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func loadRule(path, format string, logger zerolog.Logger) (Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rule{}, &ConfigError{Path: path, Err: err}
	}

	var rf ruleFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return Rule{}, &ConfigError{Path: path, Err: err}
	}
	if rf.Name == "" {
		return Rule{}, &ConfigError{Path: path, Err: fmt.Errorf("archetype rule has no name")}
	}

	rule := Rule{
		Name:       rf.Name,
		Format:     format,
		Priority:   rf.Priority,
		ColorAware: rf.ColorAware,
	}
	rule.Conditions, err = buildConditions(rf.Conditions, path, rf.Name, logger)
	if err != nil {
		return Rule{}, err
	}

	for _, vf := range rf.Variants {
		if vf.Name == "" {
			return Rule{}, &ConfigError{Path: path, Err: fmt.Errorf("variant of %q has no name", rf.Name)}
		}
		conds, err := buildConditions(vf.Conditions, path, rf.Name+" - "+vf.Name, logger)
		if err != nil {
			return Rule{}, err
		}
		rule.Variants = append(rule.Variants, Variant{Name: vf.Name, Conditions: conds})
	}

	return rule, nil
}

func buildConditions(files []conditionFile, path, owner string, logger zerolog.Logger) ([]Condition, error) {
	conds := make([]Condition, 0, len(files))
	for _, cf := range files {
		kind, err := ParseKind(cf.Type)
		if err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		if len(cf.Cards) == 0 {
			// Vacuously true for the all-present kinds. Kept as written,
			// but the rule author almost certainly did not mean it.
			logger.Warn().
				Str("archetype", owner).
				Str("condition", cf.Type).
				Str("file", path).
				Msg("condition has zero cards and always evaluates the same way")
		}
		conds = append(conds, Condition{Kind: kind, Cards: cf.Cards})
	}
	return conds, nil
}

func loadFallback(path, format string) (Fallback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fallback{}, &ConfigError{Path: path, Err: err}
	}

	var ff fallbackFile
	if err := json.Unmarshal(data, &ff); err != nil {
		return Fallback{}, &ConfigError{Path: path, Err: err}
	}
	if ff.Name == "" {
		return Fallback{}, &ConfigError{Path: path, Err: fmt.Errorf("fallback definition has no name")}
	}
	if len(ff.CommonCards) == 0 {
		return Fallback{}, &ConfigError{Path: path, Err: fmt.Errorf("fallback %q has no common cards", ff.Name)}
	}

	fb := Fallback{
		Name:        ff.Name,
		Format:      format,
		CommonCards: make(map[string]struct{}, len(ff.CommonCards)),
	}
	for _, card := range ff.CommonCards {
		fb.CommonCards[card] = struct{}{}
	}
	return fb, nil
}

func loadOverrides(path string, into map[string]string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	var of overridesFile
	if err := json.Unmarshal(data, &of); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	for _, e := range append(of.Lands, of.NonLands...) {
		if e.Name == "" || e.Color == "" {
			return &ConfigError{Path: path, Err: fmt.Errorf("color override with empty name or color")}
		}
		into[e.Name] = e.Color
	}
	return nil
}
