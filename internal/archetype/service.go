package archetype

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/deckwatch/deckwatch/internal/colors"
	"github.com/deckwatch/deckwatch/internal/deck"
	"github.com/deckwatch/deckwatch/internal/rules"
)

// UnknownArchetype is the bucket for decks no classifier could place.
const UnknownArchetype = "Unknown"

// Classifier is one strategy in the classification chain. Implementations
// return false when they cannot place the deck, letting the next strategy
// try.
type Classifier interface {
	Classify(d *deck.Decklist) (Assignment, bool)
}

type ruleClassifier struct {
	rules []rules.Rule
}

func (c ruleClassifier) Classify(d *deck.Decklist) (Assignment, bool) {
	return Match(d, c.rules)
}

type overlapClassifier struct {
	defs      []rules.Fallback
	threshold float64
}

func (c overlapClassifier) Classify(d *deck.Decklist) (Assignment, bool) {
	name, ok := BestFallback(d, c.defs, c.threshold)
	if !ok {
		return Assignment{}, false
	}
	return Assignment{Name: name, Method: MethodFallback}, true
}

// formatChain is the prebuilt strategy chain and color resolver for one
// format under one store snapshot.
type formatChain struct {
	chain    []Classifier
	resolver *colors.Resolver
}

// Service classifies decklists. It is safe for concurrent use: every call
// reads only the immutable snapshot current at entry, so classification can
// fan out across workers with no locking beyond the chain cache.
type Service struct {
	snapshot  func() *rules.Store
	threshold float64
	logger    zerolog.Logger

	mu     sync.RWMutex
	cached *rules.Store
	chains map[string]*formatChain
}

// Option configures a Service.
type Option func(*Service)

// WithOverlapThreshold overrides the fallback overlap threshold.
func WithOverlapThreshold(t float64) Option {
	return func(s *Service) { s.threshold = t }
}

// WithLogger attaches a logger for per-deck method observability.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService builds a classification service over a snapshot source,
// typically (*rules.Provider).Snapshot.
func NewService(snapshot func() *rules.Store, opts ...Option) *Service {
	s := &Service{
		snapshot:  snapshot,
		threshold: DefaultOverlapThreshold,
		logger:    zerolog.Nop(),
		chains:    make(map[string]*formatChain),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify assigns an archetype to one decklist. It never fails: a missing
// format, an empty deck, or a deck no strategy can place all degrade to the
// Unknown assignment. The color identity is always resolved, whichever
// branch produced the name.
func (s *Service) Classify(d *deck.Decklist, format string) Assignment {
	if d == nil {
		return Assignment{Name: UnknownArchetype, Method: MethodUnknown, Colors: colors.Identity{Letters: "", Guild: "Colorless"}}
	}

	fc := s.chainFor(format)

	assignment := Assignment{Name: UnknownArchetype, Method: MethodUnknown}
	for _, classifier := range fc.chain {
		if a, ok := classifier.Classify(d); ok {
			assignment = a
			break
		}
	}

	assignment.Colors = fc.resolver.Resolve(d)

	s.logger.Debug().
		Str("player", d.Player).
		Str("format", format).
		Str("archetype", assignment.Name).
		Stringer("method", assignment.Method).
		Msg("deck classified")

	return assignment
}

// chainFor returns the strategy chain for a format under the current
// snapshot, rebuilding the cache when the snapshot pointer has changed.
func (s *Service) chainFor(format string) *formatChain {
	store := s.snapshot()

	s.mu.RLock()
	if s.cached == store {
		if fc, ok := s.chains[format]; ok {
			s.mu.RUnlock()
			return fc
		}
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != store {
		s.cached = store
		s.chains = make(map[string]*formatChain)
	}
	if fc, ok := s.chains[format]; ok {
		return fc
	}

	fc := &formatChain{resolver: colors.NewResolver(nil)}
	if store != nil {
		if fr, ok := store.Format(format); ok {
			fc.chain = []Classifier{
				ruleClassifier{rules: fr.Rules},
				overlapClassifier{defs: fr.Fallbacks, threshold: s.threshold},
			}
			fc.resolver = colors.NewResolver(fr.ColorOverrides)
		}
	}
	s.chains[format] = fc
	return fc
}
