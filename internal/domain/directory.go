package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownCountry is returned by DirectoryFor for countries without a
// built-in state table.
var ErrUnknownCountry = errors.New("unknown country code")

// Match reports how a state name was resolved by a Directory.
type Match int

const (
	NoMatch Match = iota
	ExactMatch
	NormalizedMatch
)

func (m Match) String() string {
	switch m {
	case ExactMatch:
		return "exact"
	case NormalizedMatch:
		return "normalized"
	default:
		return "none"
	}
}

// Directory maps state codes to display names for one country and resolves
// display names back to codes. It is immutable once built and safe for
// concurrent use.
type Directory struct {
	countryCode string
	names       map[string]string // code -> display name
	exact       map[string]string // display name -> code
	normalized  map[string]string // normalized name or alias -> code
}

// NewDirectory builds a directory from a code -> display name table. Codes
// are stored upper-cased.
func NewDirectory(countryCode string, names map[string]string) *Directory {
	d := &Directory{
		countryCode: strings.ToUpper(countryCode),
		names:       make(map[string]string, len(names)),
		exact:       make(map[string]string, len(names)),
		normalized:  make(map[string]string, len(names)),
	}
	for code, name := range names {
		code = strings.ToUpper(code)
		d.names[code] = name
		d.exact[name] = code
		d.normalized[NormalizeName(name)] = code
	}
	return d
}

// WithAliases returns a copy of d whose normalized index also resolves the
// given alternative names. Aliases pointing at unknown codes are ignored.
func (d *Directory) WithAliases(aliases map[string]string) *Directory {
	out := &Directory{
		countryCode: d.countryCode,
		names:       d.names,
		exact:       d.exact,
		normalized:  make(map[string]string, len(d.normalized)+len(aliases)),
	}
	for k, v := range d.normalized {
		out.normalized[k] = v
	}
	for alias, code := range aliases {
		code = strings.ToUpper(code)
		if _, ok := d.names[code]; !ok {
			continue
		}
		key := NormalizeName(alias)
		if _, taken := out.normalized[key]; !taken {
			out.normalized[key] = code
		}
	}
	return out
}

// CountryCode returns the top-level code of the country the directory covers.
func (d *Directory) CountryCode() string {
	return d.countryCode
}

// Name returns the display name for a state code.
func (d *Directory) Name(code string) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d.names[strings.ToUpper(code)]
	return name, ok
}

// Lookup resolves a display name to a state code, trying the exact name
// first and the normalized index second.
func (d *Directory) Lookup(name string) (string, Match) {
	if d == nil || name == "" {
		return "", NoMatch
	}
	if code, ok := d.exact[name]; ok {
		return code, ExactMatch
	}
	if code, ok := d.normalized[NormalizeName(name)]; ok {
		return code, NormalizedMatch
	}
	return "", NoMatch
}

// Codes returns every state code in sorted order.
func (d *Directory) Codes() []string {
	codes := make([]string, 0, len(d.names))
	for code := range d.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// NormalizeName reduces a place name to a comparison key: compatibility
// normalized, case folded, "&" read as "and", everything but letters and
// digits dropped. "Jammu & Kashmir" and "JAMMU AND KASHMIR" share a key.
func NormalizeName(name string) string {
	s := cases.Fold().String(norm.NFKC.String(name))
	s = strings.ReplaceAll(s, "&", "and")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DirectoryFor returns the built-in directory for a country code.
func DirectoryFor(countryCode string) (*Directory, error) {
	switch strings.ToUpper(countryCode) {
	case IndiaCode:
		return IndiaDirectory(), nil
	case USACode:
		return USADirectory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, countryCode)
	}
}
