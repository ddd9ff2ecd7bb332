package eliza_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeozeozeo/elizabot/eliza"
)

var (
	happy = eliza.Synonym{Label: "@happy", List: []string{"happy", "elated", "glad", "better"}}
	be    = eliza.Synonym{Label: "@be", List: []string{"be", "am", "is", "are", "was"}}
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		input    string
		synonyms []eliza.Synonym
		want     []string
		wantOk   bool
	}{
		{name: "star matches all", pattern: "*", input: "hello there", want: []string{"hello there"}, wantOk: true},
		{name: "star matches empty", pattern: "*", input: "", want: []string{""}, wantOk: true},
		{name: "star keeps spacing", pattern: "*", input: "a  b", want: []string{"a  b"}, wantOk: true},
		{name: "star center", pattern: "hey i * you", input: "hey i really like you", want: []string{"really like"}, wantOk: true},
		{name: "star left", pattern: "* you", input: "really like you", want: []string{"really like"}, wantOk: true},
		{name: "star right", pattern: "i *", input: "i really like", want: []string{"really like"}, wantOk: true},
		{name: "multiple stars", pattern: "* i am *", input: "somehow i am really happy", want: []string{"somehow", "really happy"}, wantOk: true},
		{name: "stars between literals", pattern: "how * you * today", input: "how are you doing today", want: []string{"are", "doing"}, wantOk: true},
		{name: "leading star captures nothing", pattern: "* you", input: "you", want: []string{""}, wantOk: true},
		{name: "trailing star captures nothing", pattern: "i *", input: "i", want: []string{""}, wantOk: true},
		{name: "literals only", pattern: "hello world", input: "hello world", want: []string{}, wantOk: true},
		{name: "synonym", pattern: "@happy", input: "better", synonyms: []eliza.Synonym{happy}, want: []string{"better"}, wantOk: true},
		{name: "synonym label matches itself", pattern: "@happy", input: "@happy", synonyms: []eliza.Synonym{happy}, want: []string{"@happy"}, wantOk: true},
		{
			name:     "synonym and stars",
			pattern:  "* @be * like *",
			input:    "it really was like hell",
			synonyms: []eliza.Synonym{be},
			want:     []string{"it really", "was", "", "hell"},
			wantOk:   true,
		},
		{name: "synonym mismatch", pattern: "@happy", input: "sad", synonyms: []eliza.Synonym{happy}, wantOk: false},
		{name: "literal not found", pattern: "* you", input: "really like me", wantOk: false},
		{name: "more tokens than input", pattern: "hello testing", input: "testing", wantOk: false},
		{name: "literal must be next word", pattern: "i am *", input: "i really am", wantOk: false},
		{name: "empty input", pattern: "i *", input: "", wantOk: false},
		{name: "substring is not a word", pattern: "test *", input: "testing", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := eliza.Match(tt.pattern, tt.input, eliza.NewSynonyms(tt.synonyms))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestMatchCapturesAreSubstrings(t *testing.T) {
	t.Parallel()
	input := "well i am   quite tired"
	groups, ok, err := eliza.Match("* i am *", input, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"well", "  quite tired"}, groups)
	for _, g := range groups {
		assert.Contains(t, input, g)
	}
}

func TestMatchUnknownSynonym(t *testing.T) {
	t.Parallel()
	_, ok, err := eliza.Match("* @happy *", "i am happy", nil)
	assert.False(t, ok)
	assert.ErrorIs(t, err, eliza.ErrUnknownSynonym)
}

func TestSynonymsHas(t *testing.T) {
	t.Parallel()
	s := eliza.NewSynonyms([]eliza.Synonym{happy})
	assert.True(t, s.Has("@happy"))
	assert.False(t, s.Has("@sad"))
}
