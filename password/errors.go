package password

import "errors"

var (
	ErrConflictingConstraints = errors.New("cannot use both ignored and allowed characters")
	ErrLengthTooSmall         = errors.New("password length too small")
	ErrLengthTooLarge         = errors.New("password length too large")
	ErrEmptyPool              = errors.New("no characters available to generate a password")
	ErrNoSymbolsAvailable     = errors.New("symbol required but no symbols are available")
	ErrNoUppercaseAvailable   = errors.New("uppercase letter required but no uppercase letters are available")
)
