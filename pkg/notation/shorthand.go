package notation

// motionShorthands maps reserved motion tokens to their direction presses,
// in motion order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var motionShorthands = map[string][]string{
	"qcf": {"d", "df", "f"},
	"qcb": {"d", "db", "b"},
	"hcf": {"b", "db", "d", "df", "f"},
	"hcb": {"f", "df", "d", "db", "b"},
	"dp":  {"f", "d", "df"},
	"rdp": {"b", "d", "db"},
}

// IsShorthand reports whether text is a reserved motion shorthand.
func IsShorthand(text string) bool {
	_, ok := motionShorthands[text]
	return ok
}

// ExpandShorthand returns the direction presses a shorthand stands for,
// or nil when text is not a shorthand.
func ExpandShorthand(text string) []string {
	seq, ok := motionShorthands[text]
	if !ok {
		return nil
	}
	out := make([]string, len(seq))
	copy(out, seq)
	return out
}

// Expand replaces every shorthand token with its direction presses, in place.
// Expanded tokens keep the shorthand's Raw piece. Expansion is not recursive.
func Expand(tokens []Token) []Token {
	if len(tokens) == 0 {
		return tokens
	}

	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		seq, ok := motionShorthands[tok.Text]
		if !ok {
			out = append(out, tok)
			continue
		}
		for _, dir := range seq {
			out = append(out, Token{Raw: tok.Raw, Text: dir})
		}
	}
	return out
}
