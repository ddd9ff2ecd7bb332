// Package eliza provides an implementation of the Eliza chatbot
package eliza

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/zeozeozeo/elizabot/logging"
)

// RNG is the source of randomness used to pick phrases and templates.
type RNG interface {
	Intn(int) int
}

// globalRNG uses the goroutine-safe top level functions of math/rand/v2, so a
// shared Engine can be used from many goroutines.
type globalRNG struct{}

func (globalRNG) Intn(n int) int { return rand.IntN(n) }

// Response is the outcome of one conversation turn.
type Response struct {
	Message string
	// IsFarewell is set when the input was a quit phrase; the conversation is over.
	IsFarewell bool
}

// Selection is a keyword decomposition that matched the input.
type Selection struct {
	Keyword       *Keyword
	Decomposition *Decomposition
	Groups        []string
}

// Engine answers user input according to a ruleset. Its rules are never
// modified after New returns and it is safe for concurrent use.
type Engine struct {
	rules    Rules
	pre      map[string]string
	post     map[string]string
	quit     map[string]struct{}
	synonyms Synonyms
	fallback *Keyword

	// words holds the distinct non-empty keyword words, indexed like the matcher dictionary.
	words []string
	// matcher keeps per-search state, so searches are serialized.
	matcherMu sync.Mutex
	matcher   *ahocorasick.Matcher

	rng    RNG
	logger *slog.Logger
}

type Option func(*Engine)

// WithRNG replaces the random source used for every choice the engine makes.
func WithRNG(rng RNG) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Sort keys by weight - implements sort.Interface
type byWeight []Keyword

func (a byWeight) Len() int           { return len(a) }
func (a byWeight) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byWeight) Less(i, j int) bool { return a[i].Weight > a[j].Weight }

// New validates rules and builds an Engine from a private copy of them.
// Keywords are ordered by descending weight; keywords of equal weight keep
// their original order.
func New(rules Rules, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		rules:    rules.clone(),
		rng:      globalRNG{},
		logger:   logging.NewNop(),
		synonyms: NewSynonyms(rules.Synonyms),
	}
	for _, opt := range opts {
		opt(e)
	}

	sort.Stable(byWeight(e.rules.Keywords))

	e.pre = replacementTable(e.rules.Pre)
	e.post = replacementTable(e.rules.Post)
	e.quit = make(map[string]struct{}, len(e.rules.Quit))
	for _, q := range e.rules.Quit {
		e.quit[q] = struct{}{}
	}

	seen := make(map[string]struct{})
	for i := range e.rules.Keywords {
		kw := &e.rules.Keywords[i]
		if kw.Word == FallbackKeyword && e.fallback == nil {
			e.fallback = kw
		}
		if _, ok := seen[kw.Word]; ok || kw.Word == "" {
			continue
		}
		seen[kw.Word] = struct{}{}
		e.words = append(e.words, kw.Word)
	}
	if len(e.words) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.words)
	}

	return e, nil
}

func (e *Engine) choose(list []string) string {
	return list[e.rng.Intn(len(list))]
}

// Greeting returns one of the initial phrases.
func (e *Engine) Greeting() (string, error) {
	if len(e.rules.Initial) == 0 {
		return "", ErrNoGreeting
	}
	return e.choose(e.rules.Initial), nil
}

// Interact produces the reply to one line of user input.
func (e *Engine) Interact(input string) (Response, error) {
	// Firstly normalize the input, quit phrases must match it exactly
	input = strings.ToLower(strings.TrimSpace(input))

	if _, ok := e.quit[input]; ok {
		if len(e.rules.Final) == 0 {
			return Response{}, ErrNoFarewell
		}
		return Response{Message: e.choose(e.rules.Final), IsFarewell: true}, nil
	}

	// Second, perform pre-substitution
	input = Rewrite(input, e.pre)

	// Third, find the best keyword decomposition and reassemble one of its
	// templates with the captured groups
	sel, err := e.Select(input)
	if err != nil {
		return Response{}, err
	}
	if sel != nil {
		e.logger.Debug("keyword selected",
			slog.String("keyword", sel.Keyword.Word),
			slog.String("pattern", sel.Decomposition.Pattern),
			slog.Int("groups", len(sel.Groups)),
		)
		msg, err := Reassemble(e.choose(sel.Decomposition.Reasmb), sel.Groups, e.post)
		if err != nil {
			return Response{}, fmt.Errorf("keyword %q: %w", sel.Keyword.Word, err)
		}
		return Response{Message: msg}, nil
	}

	// Nothing matched, say something random
	e.logger.Debug("no keyword matched, using fallback")
	return Response{Message: e.choose(e.fallback.Decompositions[0].Reasmb)}, nil
}

// Select returns the first decomposition, in keyword weight order, whose
// pattern matches input. A nil Selection means that nothing matched; the
// fallback keyword is only selected like any other keyword.
func (e *Engine) Select(input string) (*Selection, error) {
	contained := e.containedWords(input)

	for i := range e.rules.Keywords {
		kw := &e.rules.Keywords[i]
		if _, ok := contained[kw.Word]; !ok && kw.Word != "" {
			continue
		}
		for j := range kw.Decompositions {
			d := &kw.Decompositions[j]
			groups, ok, err := Match(d.Pattern, input, e.synonyms)
			if err != nil {
				return nil, fmt.Errorf("keyword %q: %w", kw.Word, err)
			}
			if ok {
				return &Selection{Keyword: kw, Decomposition: d, Groups: groups}, nil
			}
		}
	}
	return nil, nil
}

// containedWords returns the set of keyword words occurring anywhere in input.
func (e *Engine) containedWords(input string) map[string]struct{} {
	contained := make(map[string]struct{})
	if e.matcher == nil {
		return contained
	}
	e.matcherMu.Lock()
	hits := e.matcher.Match([]byte(input))
	e.matcherMu.Unlock()
	for _, i := range hits {
		contained[e.words[i]] = struct{}{}
	}
	return contained
}

// Rules returns a copy of the engine's ruleset with keywords in match order.
func (e *Engine) Rules() Rules {
	return e.rules.clone()
}

// Keyword looks up a keyword by its word.
func (e *Engine) Keyword(word string) (Keyword, bool) {
	for _, kw := range e.rules.Keywords {
		if kw.Word == word {
			return kw.clone(), true
		}
	}
	return Keyword{}, false
}

// Rewrite replaces every space separated word of text that has an entry in table.
func Rewrite(text string, table map[string]string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if sub, ok := table[w]; ok {
			words[i] = sub
		}
	}
	return strings.Join(words, " ")
}

// Reassemble expands a reassembly template. A token starting with "(N",
// N being a single digit, is replaced as a whole by group N (1-based) after
// post-substitution; other tokens are kept as they are. The result has no
// leading or trailing space.
func Reassemble(template string, groups []string, post map[string]string) (string, error) {
	parts := strings.Split(template, " ")
	for i, part := range parts {
		n, ok := groupRef(part)
		if !ok {
			continue
		}
		if n < 1 || n > len(groups) {
			return "", fmt.Errorf("%w: %q references (%d) but %d groups were captured", ErrGroupOutOfRange, template, n, len(groups))
		}
		parts[i] = Rewrite(groups[n-1], post)
	}
	// an empty group at either end must not leave a dangling space
	return strings.Trim(strings.Join(parts, " "), " "), nil
}
