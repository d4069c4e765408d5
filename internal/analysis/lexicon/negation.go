package lexicon

import (
	"strings"
	"unicode"
)

// NegationType classifies the grammatical polarity of a keyword hit.
type NegationType string

const (
	// NegationAffirmed — no negation marker in scope; the mention stands.
	NegationAffirmed NegationType = "AFFIRMED"
	// NegationNegated — a marker sits close enough to reverse the mention
	// ("폭행은 없었다").  Negated hits are dropped from effective results.
	NegationNegated NegationType = "NEGATED"
	// NegationAmbiguous — a marker is present at the edge of the window where
	// attachment is unclear.  Treated as AFFIRMED downstream: losing real
	// evidence costs more than keeping a doubtful mention.
	NegationAmbiguous NegationType = "AMBIGUOUS"
)

// negationWindow is the token distance scanned on each side of a hit.
// Markers at distance ≤ negatedDistance classify the hit NEGATED; markers
// further out but inside the window classify it AMBIGUOUS.  Clause
// boundaries (sentence punctuation) cut the window short.
const (
	negationWindow  = 4
	negatedDistance = 2
)

// NegationFilter scans the token window around a keyword hit for Korean
// negation markers.
type NegationFilter struct {
	exact  []string // whole-token markers: 안 때렸다
	prefix []string // token-prefix markers: 없었다, 않았다, 아니라고
}

// NewNegationFilter returns the filter with the production marker list.
func NewNegationFilter() *NegationFilter {
	return &NegationFilter{
		exact:  []string{"안", "못"},
		prefix: []string{"않", "없", "아니", "절대", "못하", "못했"},
	}
}

// Classify inspects tokens around position hit and returns the polarity of
// that hit.  tokens must belong to a single clause; the caller is responsible
// for clause splitting so markers never reach across sentence boundaries.
func (f *NegationFilter) Classify(tokens []string, hit int) NegationType {
	closest := -1
	for i := hit - negationWindow; i <= hit+negationWindow; i++ {
		if i < 0 || i >= len(tokens) || i == hit {
			continue
		}
		if !f.isMarker(tokens[i]) {
			continue
		}
		d := i - hit
		if d < 0 {
			d = -d
		}
		if closest == -1 || d < closest {
			closest = d
		}
	}
	switch {
	case closest == -1:
		return NegationAffirmed
	case closest <= negatedDistance:
		return NegationNegated
	default:
		return NegationAmbiguous
	}
}

func (f *NegationFilter) isMarker(token string) bool {
	for _, m := range f.exact {
		if token == m {
			return true
		}
	}
	for _, m := range f.prefix {
		if strings.HasPrefix(token, m) {
			return true
		}
	}
	return false
}

// splitClauses cuts text on sentence-terminating punctuation so a negation in
// one sentence cannot cancel a keyword in the next.
func splitClauses(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', ';', '\n':
			return true
		}
		return false
	})
}

// tokenize splits a clause into tokens on whitespace and punctuation,
// keeping letters and digits of any script.
func tokenize(clause string) []string {
	return strings.FieldsFunc(clause, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
