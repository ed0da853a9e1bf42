package fieldmap

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/gobuffalo/flect"
)

// Convention names a member-to-field naming rule.
type Convention string

const (
	// LowerFirst lower-cases the first letter: FirstName → firstName.
	LowerFirst Convention = "lower_first"

	// Camel camel-cases the whole name: first_name → firstName.
	Camel Convention = "camel"

	// Snake converts to snake case: FirstName → first_name.
	Snake Convention = "snake"

	// Verbatim uses the member name unchanged.
	Verbatim Convention = "verbatim"
)

// Conventions lists every supported convention.
var Conventions = []Convention{LowerFirst, Camel, Snake, Verbatim}

// ParseConvention validates a convention name. The empty string means
// LowerFirst.
func ParseConvention(name string) (Convention, error) {
	if name == "" {
		return LowerFirst, nil
	}
	for _, c := range Conventions {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown naming convention %q (want one of %v)", name, Conventions)
}

// Apply maps a member name under the convention.
func (c Convention) Apply(member string) string {
	switch c {
	case Camel:
		return flect.Camelize(member)
	case Snake:
		return flect.Underscore(member)
	case Verbatim:
		return member
	default:
		return lowerFirst(member)
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
