package eliza

import (
	"fmt"
	"strings"
)

// Synonyms maps a synonym label (including its '@' marker) to its word set.
type Synonyms map[string]map[string]struct{}

// NewSynonyms indexes a synonym list for matching. Later entries with the
// same label extend earlier ones.
func NewSynonyms(list []Synonym) Synonyms {
	s := make(Synonyms, len(list))
	for _, syn := range list {
		set, ok := s[syn.Label]
		if !ok {
			set = make(map[string]struct{}, len(syn.List))
			s[syn.Label] = set
		}
		for _, w := range syn.List {
			set[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether label is a defined synonym class.
func (s Synonyms) Has(label string) bool {
	_, ok := s[label]
	return ok
}

func isSynonymToken(token string) bool {
	return strings.HasPrefix(token, "@")
}

// compatible reports whether an input word satisfies a pattern token: either
// the same word, or a member of the synonym class the token names.
func compatible(word, token string, synonyms Synonyms) bool {
	if word == token {
		return true
	}
	if !isSynonymToken(token) {
		return false
	}
	_, ok := synonyms[token][word]
	return ok
}

// span is the byte range of one word inside the input.
type span struct{ start, end int }

func wordSpans(input string) []span {
	spans := make([]span, 0, strings.Count(input, " ")+1)
	start := 0
	for i := 0; i < len(input); i++ {
		if input[i] == ' ' {
			spans = append(spans, span{start, i})
			start = i + 1
		}
	}
	return append(spans, span{start, len(input)})
}

// Match matches pattern against input and returns the captured groups, in
// pattern order. Every group is a substring of input.
//
// Pattern tokens are separated by single spaces. A "*" captures a run of
// zero or more words, a token starting with '@' matches any word of that
// synonym class and captures it, and any other token must equal the input
// word. A literal or synonym that follows a "*" is searched for; otherwise
// it has to be the next word.
//
// ok is false when the pattern does not match. An error is returned only for
// a reference to an undefined synonym class.
func Match(pattern, input string, synonyms Synonyms) (groups []string, ok bool, err error) {
	if pattern == "*" {
		return []string{input}, true, nil
	}

	tokens := strings.Split(pattern, " ")
	for _, token := range tokens {
		if isSynonymToken(token) && !synonyms.Has(token) {
			return nil, false, fmt.Errorf("%w %s", ErrUnknownSynonym, token)
		}
	}

	words := wordSpans(input)
	groups = []string{}
	cursor := 0
	star := false

	for _, token := range tokens {
		if token == "*" {
			star = true
			continue
		}

		found := -1
		for i := cursor; i < len(words); i++ {
			w := words[i]
			if compatible(input[w.start:w.end], token, synonyms) {
				found = i
				break
			}
			if !star {
				break
			}
		}
		if found < 0 {
			return nil, false, nil
		}

		if star {
			start := words[cursor].start
			end := start
			if found > cursor {
				// drop the space separating the run from the matched word
				end = words[found].start - 1
			}
			groups = append(groups, input[start:end])
		}
		if isSynonymToken(token) {
			w := words[found]
			groups = append(groups, input[w.start:w.end])
		}

		cursor = found + 1
		star = false
	}

	if star {
		if cursor < len(words) {
			groups = append(groups, input[words[cursor].start:])
		} else {
			groups = append(groups, "")
		}
	}

	return groups, true, nil
}

// groupCount is the number of groups a successful match of pattern yields.
func groupCount(pattern string) int {
	if pattern == "*" {
		return 1
	}
	n := 0
	star := false
	for _, token := range strings.Split(pattern, " ") {
		if token == "*" {
			// "* *" is a single run
			if !star {
				n++
			}
			star = true
			continue
		}
		if isSynonymToken(token) {
			n++
		}
		star = false
	}
	return n
}

// groupRef parses a reassembly token of the form "(N...", where N is a single
// digit. Group numbers above 9 are not supported.
func groupRef(token string) (int, bool) {
	if len(token) < 2 || token[0] != '(' {
		return 0, false
	}
	c := token[1]
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}
