package notation

import "strings"

// Class identifies the icon category a token resolves to.
type Class int

const (
	// ClassNone means no icon applies; the token renders as text.
	ClassNone Class = iota
	// ClassAttack is an attack button or button combination.
	ClassAttack
	// ClassHold is a held direction (upper-case token).
	ClassHold
	// ClassPress is a pressed direction (lower-case token).
	ClassPress
	// ClassMisc is a punctuation glyph: dash or bracket.
	ClassMisc
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassAttack:
		return "attack"
	case ClassHold:
		return "hold"
	case ClassPress:
		return "press"
	case ClassMisc:
		return "misc"
	default:
		return "none"
	}
}

// Asset directories of the icon classes.
const (
	DirAttack = "attack-buttons"
	DirHold   = "hold-direction"
	DirPress  = "press-direction"
	DirMisc   = "misc"
)

// assetExt is the file extension of every icon asset.
const assetExt = ".png"

// Resolution is the outcome of classifying a token.
type Resolution struct {
	Class Class

	// Path is the logical asset path, empty for ClassNone.
	Path string
}

// HasIcon reports whether the resolution names an icon asset.
func (r Resolution) HasIcon() bool {
	return r.Class != ClassNone
}

// canonicalButtons are the fifteen combinations of buttons 1 to 4.
//
//nolint:gochecknoglobals // Read-only lookup table.
var canonicalButtons = map[string]struct{}{
	"1": {}, "2": {}, "3": {}, "4": {},
	"1+2": {}, "1+3": {}, "1+4": {}, "2+3": {}, "2+4": {}, "3+4": {},
	"1+2+3": {}, "1+2+4": {}, "1+3+4": {}, "2+3+4": {},
	"1+2+3+4": {},
}

// IsCanonicalButtons reports whether token is one of the fifteen legal
// button combinations, from "1" through "1+2+3+4".
func IsCanonicalButtons(token string) bool {
	_, ok := canonicalButtons[token]
	return ok
}

// CanonicalButtons returns the fifteen legal button combinations.
func CanonicalButtons() []string {
	return []string{
		"1", "2", "3", "4",
		"1+2", "1+3", "1+4", "2+3", "2+4", "3+4",
		"1+2+3", "1+2+4", "1+3+4", "2+3+4",
		"1+2+3+4",
	}
}

// IsMiscSymbol reports whether token is one of the punctuation icons.
func IsMiscSymbol(token string) bool {
	return token == "-" || token == "[" || token == "]"
}

// Resolve classifies a token. Rules are evaluated in order; the first match wins:
//
//  1. contains a digit: attack button, keyed by the exact token
//  2. all upper-case letters: held direction, keyed by the lower-cased token
//  3. all lower-case letters: pressed direction, keyed by the token
//  4. dash or bracket: misc glyph
//  5. anything else: no icon
//
// Digit tokens outside the canonical fifteen are still given a path; the
// asset lookup is expected to miss. A token containing a path separator
// never names an asset, so every icon stays inside its class directory.
func Resolve(token string) Resolution {
	switch {
	case strings.ContainsAny(token, `/\`):
		return Resolution{Class: ClassNone}
	case containsDigit(token):
		return Resolution{Class: ClassAttack, Path: assetPath(DirAttack, token)}
	case isLetters(token, 'A', 'Z'):
		return Resolution{Class: ClassHold, Path: assetPath(DirHold, strings.ToLower(token))}
	case isLetters(token, 'a', 'z'):
		return Resolution{Class: ClassPress, Path: assetPath(DirPress, token)}
	case IsMiscSymbol(token):
		return Resolution{Class: ClassMisc, Path: assetPath(DirMisc, token)}
	default:
		return Resolution{Class: ClassNone}
	}
}

func assetPath(dir, name string) string {
	return dir + "/" + name + assetExt
}

func containsDigit(s string) bool {
	for i := range len(s) {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

// isLetters reports whether s is non-empty and every byte is in [lo, hi].
func isLetters(s string, lo, hi byte) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < lo || s[i] > hi {
			return false
		}
	}
	return true
}
