// Package normalize turns raw company-name strings into a canonical display
// form: apostrophes and punctuation resolved, legal suffixes stripped, smart
// token casing applied. Cleaning is deterministic, total, and pure.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/namecleaner/internal/rules"
)

var (
	apostrophes  = strings.NewReplacer("'", "", "’", "", "‘", "")
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}_\s&-]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// Normalizer cleans names according to a compiled rule set and policies.
// Safe for concurrent use.
type Normalizer struct {
	set *rules.Set
	pol rules.Policies
}

// New builds a Normalizer from a compiled rule set and policy flags.
func New(set *rules.Set, pol rules.Policies) *Normalizer {
	return &Normalizer{set: set, pol: pol}
}

// NewDefault builds a Normalizer with the built-in tables and policies.
func NewDefault() *Normalizer {
	return New(rules.Default().MustCompile(), rules.DefaultPolicies())
}

// Clean normalizes a single raw name. Empty or whitespace-only input yields
// an empty string; a name that is nothing but a legal suffix strips to empty.
func (n *Normalizer) Clean(raw string) string {
	s := apostrophes.Replace(raw)
	s = punctRe.ReplaceAllString(s, " ")

	if n.pol.Hyphen == rules.HyphenToSpace {
		s = strings.ReplaceAll(s, "-", " ")
	}

	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// The ampersand rewrite runs after suffix stripping so the "& Co" guard
	// in StripSuffix sees the ampersand before it becomes "and". The guard
	// only exists under the spaced-and policy; always-and converts every
	// ampersand, so a trailing Co strips like any other suffix.
	keepAmpCo := n.pol.Ampersand == rules.AmpersandSpacedAnd
	s = n.set.StripSuffix(s, keepAmpCo)

	if n.pol.Ampersand == rules.AmpersandAlwaysAnd {
		s = strings.ReplaceAll(s, "&", " and ")
		s = multiSpaceRe.ReplaceAllString(s, " ")
		s = strings.TrimSpace(s)
	}

	tokens := strings.Fields(s)
	if n.pol.Ampersand == rules.AmpersandSpacedAnd {
		// A standalone "&" token was whitespace-surrounded in the input.
		// Interior ones become "and"; a trailing one feeds the "& Co"
		// repair below, and a guarded "& Co" tail stays literal.
		for i, tok := range tokens {
			if tok != "&" || i == 0 || i == len(tokens)-1 {
				continue
			}
			if i == len(tokens)-2 && strings.EqualFold(tokens[i+1], "co") {
				continue
			}
			tokens[i] = "and"
		}
	}

	// The Co in a guarded "& Co" tail keeps its display form; without this
	// the state-code rule would turn it into Colorado.
	ampCo := len(tokens) >= 2 &&
		tokens[len(tokens)-2] == "&" && strings.EqualFold(tokens[len(tokens)-1], "co")

	caser := cases.Title(language.English)
	for i, tok := range tokens {
		tokens[i] = n.caseToken(caser, tok, i == 0)
	}

	if ampCo {
		tokens[len(tokens)-1] = "Co"
	}

	// A stripped "Company"-style suffix can leave a dangling ampersand;
	// restore the "& Co" reading.
	if len(tokens) > 0 && tokens[len(tokens)-1] == "&" {
		tokens = append(tokens, "Co")
	}

	return strings.Join(tokens, " ")
}

// caseToken applies the first matching casing rule, in fixed order:
// state code, stopword, acronym exception, short all-caps, title case.
func (n *Normalizer) caseToken(caser cases.Caser, tok string, first bool) string {
	lower := strings.ToLower(tok)

	switch {
	case utf8.RuneCountInString(tok) == 2 && n.set.IsStateCode(lower):
		return strings.ToUpper(tok)
	case n.set.IsStopword(lower):
		if first && n.pol.CapitalizeFirstStopword {
			return upperFirst(lower)
		}
		return lower
	case n.set.IsAcronym(lower) && isUpper(tok):
		return tok
	case isUpper(tok) && utf8.RuneCountInString(tok) <= 3:
		return tok
	default:
		return caser.String(tok)
	}
}

// isUpper reports whether the token contains at least one letter and no
// lowercase letters. Digit-only tokens are not uppercase.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
