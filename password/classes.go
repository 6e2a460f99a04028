package password

import (
	"github.com/samber/lo"
)

// Character classes the sampling pool is assembled from.
const (
	Symbols   = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	Digits    = "0123456789"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
)

// MaxLength is the largest accepted password length.
const MaxLength = 999999

// Pool is the set of characters available to a single generation.
type Pool struct {
	// Chars is the sampling pool.
	Chars []rune
	// Symbols and Uppercase back the must-contain constraints.
	Symbols   []rune
	Uppercase []rune
}

// Pool assembles the character pool described by o. It does not validate o.
func (o Options) Pool() Pool {
	symbols := []rune(Symbols)
	digits := []rune(Digits)
	upper := []rune(Uppercase)
	lower := []rune(Lowercase)

	switch {
	case o.IgnoredChars != "":
		ignored := runeSet(o.IgnoredChars)
		keep := func(r rune, _ int) bool {
			_, found := ignored[r]
			return !found
		}
		symbols = lo.Filter(symbols, keep)
		digits = lo.Filter(digits, keep)
		upper = lo.Filter(upper, keep)
		lower = lo.Filter(lower, keep)

	case o.AllowedChars != "":
		allowed := runeSet(o.AllowedChars)
		keep := func(r rune, _ int) bool {
			_, found := allowed[r]
			return found
		}
		return Pool{
			Chars:     lo.Uniq([]rune(o.AllowedChars)),
			Symbols:   lo.Filter(symbols, keep),
			Uppercase: lo.Filter(upper, keep),
		}
	}

	chars := make([]rune, 0, len(symbols)+len(digits)+len(upper)+len(lower))
	chars = append(chars, symbols...)
	chars = append(chars, digits...)
	chars = append(chars, upper...)
	chars = append(chars, lower...)

	return Pool{
		Chars:     chars,
		Symbols:   symbols,
		Uppercase: upper,
	}
}

func runeSet(s string) map[rune]struct{} {
	return lo.SliceToMap([]rune(s), func(r rune) (rune, struct{}) {
		return r, struct{}{}
	})
}
