package dialect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unrecognized input.
var ErrUnknownMode = errors.New("dialect: unknown translation mode")

// Mode is the direction of a translation.
type Mode string

const (
	// ToDialect translates Mandarin (or English) source text into a dialect.
	ToDialect Mode = "TO_DIALECT"
	// ToMandarin translates dialect text into standard Mandarin.
	ToMandarin Mode = "TO_MANDARIN"
)

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ToDialect || m == ToMandarin
}

// Arrow returns the short direction marker used in listings.
func (m Mode) Arrow() string {
	switch m {
	case ToDialect:
		return "中 → 方"
	case ToMandarin:
		return "方 → 中"
	}
	return "?"
}

// ParseMode accepts "TO_DIALECT"/"TO_MANDARIN" as well as the short CLI
// forms "to-dialect", "dialect", "to-mandarin" and "mandarin".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to_dialect", "to-dialect", "dialect":
		return ToDialect, nil
	case "to_mandarin", "to-mandarin", "mandarin":
		return ToMandarin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
