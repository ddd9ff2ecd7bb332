package eliza

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackKeyword is the keyword used when nothing else matches the input.
const FallbackKeyword = "xnone"

var (
	ErrMissingFallback     = errors.New("fallback keyword 'xnone' is missing")
	ErrNegativeWeight      = errors.New("keyword weight must not be negative")
	ErrEmptyDecompositions = errors.New("keyword has no decompositions")
	ErrEmptyReassembly     = errors.New("decomposition has no reassembly templates")
	ErrUnknownSynonym      = errors.New("unknown synonym")
	ErrGroupOutOfRange     = errors.New("reassembly group out of range")
	ErrNoGreeting          = errors.New("initial rules should have at least one item")
	ErrNoFarewell          = errors.New("final rules should have at least one item")
)

// Rules is a complete ruleset as found in a rules document.
type Rules struct {
	Initial  []string      `json:"initial" yaml:"initial"`
	Final    []string      `json:"final" yaml:"final"`
	Quit     []string      `json:"quit" yaml:"quit"`
	Pre      []Replacement `json:"pre" yaml:"pre"`
	Post     []Replacement `json:"post" yaml:"post"`
	Synonyms []Synonym     `json:"synon" yaml:"synon"`
	Keywords []Keyword     `json:"key" yaml:"key"`
}

// Replacement rewrites a single word into another.
type Replacement struct {
	From string `json:"in" yaml:"in"`
	To   string `json:"out" yaml:"out"`
}

// Synonym is a class of interchangeable words. The label carries its '@' marker.
type Synonym struct {
	Label string   `json:"label" yaml:"label"`
	List  []string `json:"list" yaml:"list"`
}

// Keyword triggers its decompositions when Word occurs anywhere in the input.
type Keyword struct {
	Word           string          `json:"word" yaml:"word"`
	Weight         int             `json:"weight" yaml:"weight"`
	Decompositions []Decomposition `json:"decomp" yaml:"decomp"`
}

type Decomposition struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Reasmb  []string `json:"reasmb" yaml:"reasmb"`
}

// ConfigError describes a defect in a ruleset. It wraps one of the sentinel
// errors of this package so it can be tested with errors.Is.
type ConfigError struct {
	Keyword string
	Pattern string
	Err     error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid rules")
	if e.Keyword != "" {
		fmt.Fprintf(&b, ": keyword %q", e.Keyword)
	}
	if e.Pattern != "" {
		fmt.Fprintf(&b, ": pattern %q", e.Pattern)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Validate checks the invariants an Engine relies on and returns every
// violation found, joined.
func (r Rules) Validate() error {
	var errs []error
	synonyms := NewSynonyms(r.Synonyms)

	hasFallback := false
	for _, kw := range r.Keywords {
		if kw.Word == FallbackKeyword {
			hasFallback = true
		}
		if kw.Weight < 0 {
			errs = append(errs, &ConfigError{Keyword: kw.Word, Err: ErrNegativeWeight})
		}
		if len(kw.Decompositions) == 0 {
			errs = append(errs, &ConfigError{Keyword: kw.Word, Err: ErrEmptyDecompositions})
			continue
		}
		for _, d := range kw.Decompositions {
			if len(d.Reasmb) == 0 {
				errs = append(errs, &ConfigError{Keyword: kw.Word, Pattern: d.Pattern, Err: ErrEmptyReassembly})
			}
			for _, token := range strings.Split(d.Pattern, " ") {
				if isSynonymToken(token) && !synonyms.Has(token) {
					errs = append(errs, &ConfigError{
						Keyword: kw.Word,
						Pattern: d.Pattern,
						Err:     fmt.Errorf("%w %s", ErrUnknownSynonym, token),
					})
				}
			}
			groups := groupCount(d.Pattern)
			for _, tmpl := range d.Reasmb {
				for _, token := range strings.Split(tmpl, " ") {
					n, ok := groupRef(token)
					if ok && (n < 1 || n > groups) {
						errs = append(errs, &ConfigError{
							Keyword: kw.Word,
							Pattern: d.Pattern,
							Err:     fmt.Errorf("%w: template %q references (%d), pattern captures %d", ErrGroupOutOfRange, tmpl, n, groups),
						})
					}
				}
			}
		}
	}
	if !hasFallback {
		errs = append(errs, &ConfigError{Keyword: FallbackKeyword, Err: ErrMissingFallback})
	}

	return errors.Join(errs...)
}

// clone returns a deep copy so that an Engine never shares slices with its caller.
func (r Rules) clone() Rules {
	out := Rules{
		Initial:  append([]string(nil), r.Initial...),
		Final:    append([]string(nil), r.Final...),
		Quit:     append([]string(nil), r.Quit...),
		Pre:      append([]Replacement(nil), r.Pre...),
		Post:     append([]Replacement(nil), r.Post...),
		Synonyms: make([]Synonym, len(r.Synonyms)),
		Keywords: make([]Keyword, len(r.Keywords)),
	}
	for i, s := range r.Synonyms {
		out.Synonyms[i] = Synonym{Label: s.Label, List: append([]string(nil), s.List...)}
	}
	for i, kw := range r.Keywords {
		out.Keywords[i] = kw.clone()
	}
	return out
}

func (kw Keyword) clone() Keyword {
	out := Keyword{Word: kw.Word, Weight: kw.Weight, Decompositions: make([]Decomposition, len(kw.Decompositions))}
	for i, d := range kw.Decompositions {
		out.Decompositions[i] = Decomposition{Pattern: d.Pattern, Reasmb: append([]string(nil), d.Reasmb...)}
	}
	return out
}

// replacementTable turns a replacement list into a lookup table. The first
// entry for a word wins.
func replacementTable(list []Replacement) map[string]string {
	table := make(map[string]string, len(list))
	for _, r := range list {
		if _, ok := table[r.From]; !ok {
			table[r.From] = r.To
		}
	}
	return table
}
