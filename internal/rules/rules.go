// Package rules defines the rule tables and policy flags that drive company
// name normalization. The tables are data, not code: callers can load custom
// tables from YAML and compile them into a queryable Set.
package rules

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// AmpersandPolicy controls how ampersands are rewritten.
type AmpersandPolicy string

const (
	// AmpersandSpacedAnd rewrites a whitespace-surrounded "&" to "and" and
	// keeps an unspaced "&" as part of its token ("H&H" stays "H&H").
	AmpersandSpacedAnd AmpersandPolicy = "spaced-and"
	// AmpersandAlwaysAnd rewrites every "&" to "and".
	AmpersandAlwaysAnd AmpersandPolicy = "always-and"
)

// HyphenPolicy controls how hyphens are resolved.
type HyphenPolicy string

const (
	// HyphenToSpace converts hyphens to spaces, merging hyphenated words.
	HyphenToSpace HyphenPolicy = "space"
	// HyphenPreserve keeps hyphens; each segment is cased independently.
	HyphenPreserve HyphenPolicy = "preserve"
)

// Policies holds the named behavior flags that vary across cleaner variants.
type Policies struct {
	Ampersand               AmpersandPolicy
	Hyphen                  HyphenPolicy
	CapitalizeFirstStopword bool
}

// DefaultPolicies returns the default policy set.
func DefaultPolicies() Policies {
	return Policies{
		Ampersand:               AmpersandSpacedAnd,
		Hyphen:                  HyphenToSpace,
		CapitalizeFirstStopword: true,
	}
}

// Validate checks that every policy value is a known variant.
func (p Policies) Validate() error {
	switch p.Ampersand {
	case AmpersandSpacedAnd, AmpersandAlwaysAnd:
	default:
		return eris.Errorf("rules: unknown ampersand policy %q", p.Ampersand)
	}
	switch p.Hyphen {
	case HyphenToSpace, HyphenPreserve:
	default:
		return eris.Errorf("rules: unknown hyphen policy %q", p.Hyphen)
	}
	return nil
}

// Ruleset holds the raw rule tables. Suffixes are regex-ready fragments
// matched case-insensitively at the end of the name.
type Ruleset struct {
	Suffixes   []string `yaml:"suffixes"`
	Stopwords  []string `yaml:"stopwords"`
	Acronyms   []string `yaml:"acronyms"`
	StateCodes []string `yaml:"state_codes"`
}

// Default returns the built-in rule tables.
func Default() Ruleset {
	return Ruleset{
		Suffixes: []string{
			`incorporated`, `inc\.?`,
			`llc`, `l\.l\.c\.?`,
			`company`, `co\.?`, `corp\.?`, `corporation`,
			`limited`, `ltd\.?`, `plc`,
			`gmbh`, `s\.a\.?`, `bv`, `b\.v\.?`, `ag`,
			// Professional and medical markers.
			`dds`, `dmd`,
			`p\.a\.?`, `p\s*a`, `pa`,
			`m\.d\.?`, `m\s*d`, `md`,
		},
		Stopwords: []string{
			"of", "and", "the", "for", "in", "on", "at", "with", "to", "from", "by",
		},
		Acronyms: []string{"usa", "ibm", "nasa", "usaa", "at&t"},
		StateCodes: []string{
			"al", "ak", "az", "ar", "ca", "co", "ct", "de", "fl", "ga",
			"hi", "id", "il", "in", "ia", "ks", "ky", "la", "me", "md",
			"ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh", "nj",
			"nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc",
			"sd", "tn", "tx", "ut", "vt", "va", "wa", "wv", "wi", "wy",
		},
	}
}

// LoadFile reads rule tables from a YAML file. Tables omitted from the file
// fall back to the defaults, so a file can override just the suffix list.
func LoadFile(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, eris.Wrapf(err, "rules: read %s", path)
	}

	rs := Default()
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return Ruleset{}, eris.Wrapf(err, "rules: parse %s", path)
	}
	return rs, nil
}

// Set is a compiled Ruleset ready for lookups during normalization.
type Set struct {
	suffixRe   *regexp.Regexp
	stopwords  map[string]bool
	acronyms   map[string]bool
	stateCodes map[string]bool
}

// Compile builds the suffix matcher and lookup tables. Invalid suffix
// patterns are a configuration error.
func (r Ruleset) Compile() (*Set, error) {
	if len(r.Suffixes) == 0 {
		return nil, eris.New("rules: empty suffix table")
	}

	// Anchored to end of string; the (?:\s+|^) alternative lets a name that
	// is nothing but a suffix ("LLC") strip down to empty.
	expr := `(?i)(?:\s+|^)(?:` + strings.Join(r.Suffixes, "|") + `)\s*$`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, eris.Wrap(err, "rules: compile suffix pattern")
	}

	return &Set{
		suffixRe:   re,
		stopwords:  toSet(r.Stopwords),
		acronyms:   toSet(r.Acronyms),
		stateCodes: toSet(r.StateCodes),
	}, nil
}

// MustCompile is like Compile but panics on error. For use with the built-in
// tables, which always compile.
func (r Ruleset) MustCompile() *Set {
	s, err := r.Compile()
	if err != nil {
		panic(err)
	}
	return s
}

// StripSuffix removes one trailing legal/professional suffix together with
// its separating whitespace. With keepAmpCo set, a trailing "Co"/"Co."
// immediately preceded by a literal ampersand is retained, so
// "Eldredge & Co" survives intact.
func (s *Set) StripSuffix(name string, keepAmpCo bool) string {
	loc := s.suffixRe.FindStringIndex(name)
	if loc == nil {
		return name
	}

	matched := strings.ToLower(strings.TrimSpace(name[loc[0]:loc[1]]))
	head := name[:loc[0]]
	if keepAmpCo && (matched == "co" || matched == "co.") && strings.HasSuffix(head, "&") {
		return name
	}
	return head
}

// IsStopword reports whether the lowercased token is a connective stopword.
func (s *Set) IsStopword(lower string) bool { return s.stopwords[lower] }

// IsAcronym reports whether the lowercased token is a known acronym.
func (s *Set) IsAcronym(lower string) bool { return s.acronyms[lower] }

// IsStateCode reports whether the lowercased token is a US state postal code.
func (s *Set) IsStateCode(lower string) bool { return s.stateCodes[lower] }

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}
