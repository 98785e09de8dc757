package notation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tekkenmd/pkg/notation"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		source      string
		wantName    string
		wantEndText string
		wantTokens  []string
	}{
		{
			name:       "plain buttons",
			source:     "1,2,3,4",
			wantTokens: []string{"1", "2", "3", "4"},
		},
		{
			name:       "leading name",
			source:     `"Jin", 1+2, D`,
			wantName:   "Jin",
			wantTokens: []string{"1+2", "D"},
		},
		{
			name:        "name and end text",
			source:      `"Jin", 1+2, f, D, 3,4 "Launcher!"`,
			wantName:    "Jin",
			wantEndText: "Launcher!",
			wantTokens:  []string{"1+2", "f", "D", "3", "4"},
		},
		{
			name:       "quoted segment in the middle is literal",
			source:     `1+2, f, "Jin", 3`,
			wantTokens: []string{"1+2", "f", `"Jin"`, "3"},
		},
		{
			name:       "whitespace collapses to plus",
			source:     "1 2, 3   4",
			wantTokens: []string{"1+2", "3+4"},
		},
		{
			name:       "spaced plus collapses",
			source:     "1 + 2 + 3",
			wantTokens: []string{"1+2+3"},
		},
		{
			name:       "empty pieces dropped",
			source:     "1,, ,2,",
			wantTokens: []string{"1", "2"},
		},
		{
			name:       "unterminated leading quote is literal",
			source:     `"Jin, 1`,
			wantTokens: []string{`"Jin`, "1"},
		},
		{
			name:       "lone trailing quote is literal",
			source:     `1, 2"`,
			wantTokens: []string{"1", `2"`},
		},
		{
			name:        "end text only",
			source:      `1, 2 "Wall splat"`,
			wantEndText: "Wall splat",
			wantTokens:  []string{"1", "2"},
		},
		{
			name:     "name only",
			source:   `"Kazuya"`,
			wantName: "Kazuya",
		},
		{
			name:        "name and end text without moves",
			source:      `"Kazuya", "EWGF"`,
			wantName:    "Kazuya",
			wantEndText: "EWGF",
		},
		{
			name:       "surrounding whitespace ignored",
			source:     "  \n 1, 2 \n",
			wantTokens: []string{"1", "2"},
		},
		{
			name:   "empty source",
			source: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := notation.Parse(tt.source)

			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantEndText, got.EndText)
			if len(tt.wantTokens) == 0 {
				assert.Empty(t, got.Tokens)
				return
			}
			assert.Equal(t, tt.wantTokens, got.Texts())
		})
	}
}

func TestParse_KeepsRawPiece(t *testing.T) {
	t.Parallel()

	got := notation.Parse("1 2 ,f")
	require.Len(t, got.Tokens, 2)
	assert.Equal(t, "1 2 ", got.Tokens[0].Raw)
	assert.Equal(t, "1+2", got.Tokens[0].Text)
}

func TestParse_NormalizationIsIdempotent(t *testing.T) {
	t.Parallel()

	sources := []string{
		"1,2,3,4",
		`"Jin", 1 2, f,  D , 3 + 4 "Launcher!"`,
		"df, 1 + 2, [, -, ]",
		"  1   2  3 ,, d/f",
		"+, ++, 1+",
	}

	for _, source := range sources {
		first := notation.Parse(source)
		second := notation.Parse(strings.Join(first.Texts(), ","))

		assert.Equal(t, first.Texts(), second.Texts(), "source %q", source)

		for _, text := range first.Texts() {
			assert.Equal(t, text, notation.Normalize(text), "source %q", source)
		}
	}
}

func TestNotation_StringRoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{
		`"Jin", 1+2, D`,
		`"Jin", 1 2, f, D, 3,4 "Launcher!"`,
		"1,2,3,4",
		`qcf, 2 "Fireball"`,
		`"Kazuya", "EWGF"`,
	}

	for _, source := range sources {
		parsed := notation.Parse(source)
		reparsed := notation.Parse(parsed.String())

		assert.Equal(t, parsed.Name, reparsed.Name, "source %q", source)
		assert.Equal(t, parsed.EndText, reparsed.EndText, "source %q", source)
		assert.Equal(t, parsed.Texts(), reparsed.Texts(), "source %q", source)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{" 1 ", "1"},
		{"1 2", "1+2"},
		{"1\t2", "1+2"},
		{"1 + 2", "1+2"},
		{"1++2", "1+2"},
		{"+", "+"},
		{" + ", "+"},
		{"d/f", "d/f"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, notation.Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}
