// Package password generates random passwords from the printable ASCII
// character classes, optionally forcing a symbol and/or an uppercase letter
// into the result and narrowing the usable characters with an allow-list or
// a deny-list.
package password

import (
	"fmt"
	"strings"
)

// Options describes a single password to generate.
type Options struct {
	Length int

	// RequireSymbol and RequireUppercase force at least one character of
	// the respective class into the password.
	RequireSymbol    bool
	RequireUppercase bool

	// IgnoredChars and AllowedChars are sets of characters, one per rune.
	// At most one of them may be set.
	IgnoredChars string
	AllowedChars string
}

// constraints returns the number of must-contain constraints in effect.
func (o Options) constraints() int {
	n := 0
	if o.RequireSymbol {
		n++
	}
	if o.RequireUppercase {
		n++
	}
	return n
}

// Validate checks o without building the pool.
func (o Options) Validate() error {
	if o.IgnoredChars != "" && o.AllowedChars != "" {
		return ErrConflictingConstraints
	}

	minLength := o.constraints()
	if minLength < 1 {
		minLength = 1
	}
	if o.Length < minLength {
		return fmt.Errorf("%w: got %d, must be at least %d", ErrLengthTooSmall, o.Length, minLength)
	}

	if o.Length > MaxLength {
		return fmt.Errorf("%w: got %d, must be less than %d", ErrLengthTooLarge, o.Length, MaxLength+1)
	}
	return nil
}

// Check reports whether a password can be generated for o. It runs the same
// checks as Generate without consuming any randomness.
func (o Options) Check() error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.Pool().check(o)
}

func (p Pool) check(o Options) error {
	if len(p.Chars) == 0 {
		return ErrEmptyPool
	}
	if o.RequireSymbol && len(p.Symbols) == 0 {
		return ErrNoSymbolsAvailable
	}
	if o.RequireUppercase && len(p.Uppercase) == 0 {
		return ErrNoUppercaseAvailable
	}
	return nil
}

// Generator generates passwords using a Source.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator drawing randomness from src.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

var defaultGenerator = NewGenerator(defaultSource())

// Generate generates a password using the package default source, a
// pseudorandom generator seeded at startup.
func Generate(opts Options) (string, error) {
	return defaultGenerator.Generate(opts)
}

// Generate returns a password of exactly opts.Length characters.
func (g *Generator) Generate(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	pool := opts.Pool()
	if len(pool.Chars) == 0 {
		return "", ErrEmptyPool
	}

	password := make([]rune, opts.Length)
	for i := range password {
		password[i] = pool.Chars[g.src.Choice(len(pool.Chars))]
	}

	positions := g.src.Sample(opts.Length, opts.constraints())

	if opts.RequireSymbol {
		if len(pool.Symbols) == 0 {
			return "", ErrNoSymbolsAvailable
		}
		password[positions[0]] = pool.Symbols[g.src.Choice(len(pool.Symbols))]
		positions = positions[1:]
	}

	if opts.RequireUppercase {
		if len(pool.Uppercase) == 0 {
			return "", ErrNoUppercaseAvailable
		}
		password[positions[0]] = pool.Uppercase[g.src.Choice(len(pool.Uppercase))]
	}

	var sb strings.Builder
	sb.Grow(opts.Length)
	for _, r := range password {
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
