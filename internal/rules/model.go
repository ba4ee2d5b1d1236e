// Package rules loads and holds the per-format archetype rule sets, fallback
// definitions, and color overrides. A loaded Store is an immutable snapshot;
// reloads build a new Store and swap it atomically.
package rules

import "fmt"

// Kind identifies one structural predicate over a decklist's card zones.
type Kind int

const (
	KindInvalid Kind = iota
	InMainboard
	InSideboard
	InMainOrSideboard
	OneOrMoreInMainboard
	OneOrMoreInSideboard
	OneOrMoreInMainOrSideboard
	TwoOrMoreInMainboard
	TwoOrMoreInSideboard
	TwoOrMoreInMainOrSideboard
	DoesNotContain
	DoesNotContainMainboard
	DoesNotContainSideboard
)

var kindNames = map[Kind]string{
	InMainboard:                "InMainboard",
	InSideboard:                "InSideboard",
	InMainOrSideboard:          "InMainOrSideboard",
	OneOrMoreInMainboard:       "OneOrMoreInMainboard",
	OneOrMoreInSideboard:       "OneOrMoreInSideboard",
	OneOrMoreInMainOrSideboard: "OneOrMoreInMainOrSideboard",
	TwoOrMoreInMainboard:       "TwoOrMoreInMainboard",
	TwoOrMoreInSideboard:       "TwoOrMoreInSideboard",
	TwoOrMoreInMainOrSideboard: "TwoOrMoreInMainOrSideboard",
	DoesNotContain:             "DoesNotContain",
	DoesNotContainMainboard:    "DoesNotContainMainboard",
	DoesNotContainSideboard:    "DoesNotContainSideboard",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the configuration-file spelling of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration-file type string to its Kind.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindsByName[s]; ok {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("unknown condition type %q", s)
}

// Condition is a single predicate inside a rule. Immutable after load.
type Condition struct {
	Kind  Kind
	Cards []string
}

// Variant refines a base archetype. Variants are matched only after their
// base rule matched, and never nest further.
type Variant struct {
	Name       string
	Conditions []Condition
}

// Rule is one archetype definition. A deck matches the rule when every
// condition evaluates true. Rules are uniquely identified by (format, name)
// and immutable after load.
type Rule struct {
	Name       string
	Format     string
	Priority   int
	ColorAware bool
	Conditions []Condition
	Variants   []Variant
}

// Fallback is a card-overlap definition used when no rule matches.
type Fallback struct {
	Name        string
	Format      string
	CommonCards map[string]struct{}
}

// FormatRules holds everything loaded for one format. Rules are ordered by
// (priority, name) so first-match-wins is reproducible across platforms;
// fallbacks are ordered by name for the same reason.
type FormatRules struct {
	Format         string
	Rules          []Rule
	Fallbacks      []Fallback
	ColorOverrides map[string]string
}

// Store is an immutable snapshot of all loaded formats.
type Store struct {
	formats map[string]*FormatRules
}

// NewStore builds a store from already-constructed format rule sets, for
// callers that compose rules programmatically instead of loading them from
// disk.
func NewStore(formats ...*FormatRules) *Store {
	m := make(map[string]*FormatRules, len(formats))
	for _, fr := range formats {
		m[fr.Format] = fr
	}
	return &Store{formats: m}
}

// Format returns the rule set for a format, if loaded.
func (s *Store) Format(name string) (*FormatRules, bool) {
	fr, ok := s.formats[name]
	return fr, ok
}

// Formats returns the names of all loaded formats.
func (s *Store) Formats() []string {
	names := make([]string, 0, len(s.formats))
	for name := range s.formats {
		names = append(names, name)
	}
	return names
}
