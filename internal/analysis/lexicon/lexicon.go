// Package lexicon implements the keyword lexicon and the negation-aware
// classifier at the bottom of the evidentiary analysis pipeline.  A Lexicon is
// built once at process start from static category tables and is immutable
// afterwards, so any number of goroutines may call it without synchronisation.
package lexicon

import (
	"sort"
	"strings"

	"github.com/x-ordo/evidentia/pkg/errors"
)

// Category is a legal-relevance keyword category.
type Category string

const (
	CategoryDivorce       Category = "divorce"
	CategoryAdultery      Category = "adultery"
	CategoryViolence      Category = "violence"
	CategoryVerbalAbuse   Category = "verbal_abuse"
	CategoryFinancial     Category = "financial"
	CategoryEconomicAbuse Category = "economic_abuse"
	CategoryDesertion     Category = "desertion"
	CategoryChildAbuse    Category = "child_abuse"
	CategorySubstance     Category = "substance"
	CategoryMedical       Category = "medical"
)

// MatchResult is one classified keyword hit inside a message.
type MatchResult struct {
	Keyword  string
	Category Category
	Weight   float64
	// TokenIndex is the index of the first token containing the keyword,
	// counted across the whole text.
	TokenIndex int
	Negation   NegationType
}

// Entry couples one category's keyword list with its evidentiary weight.
type Entry struct {
	Keywords []string
	Weight   float64
}

// Lexicon is the static category→keyword mapping plus the negation filter.
type Lexicon struct {
	entries  map[Category]Entry
	negation *NegationFilter
}

// defaultEntries is the production lexicon.  Keywords are matched as
// substrings of individual tokens, so conjugated forms are listed explicitly
// where the stem changes (때리/때렸, 맞아/맞았).
var defaultEntries = map[Category]Entry{
	CategoryDivorce: {
		Weight:   1.5,
		Keywords: []string{"이혼", "소송", "위자료", "재산분할", "양육권", "합의서", "별거"},
	},
	CategoryAdultery: {
		Weight:   2.5,
		Keywords: []string{"불륜", "바람", "외도", "상간", "모텔", "애인"},
	},
	CategoryViolence: {
		Weight:   3.0,
		Keywords: []string{"폭행", "폭력", "때리", "때렸", "맞았", "멍", "협박", "밀쳤"},
	},
	CategoryVerbalAbuse: {
		Weight:   2.0,
		Keywords: []string{"욕설", "폭언", "모욕", "무시", "조롱"},
	},
	CategoryFinancial: {
		Weight:   2.0,
		Keywords: []string{"재산", "계좌", "통장", "대출", "도박", "빼돌", "은닉", "명의"},
	},
	CategoryEconomicAbuse: {
		Weight:   2.0,
		Keywords: []string{"생활비", "경제권", "카드를 뺏", "용돈"},
	},
	CategoryDesertion: {
		Weight:   2.0,
		Keywords: []string{"가출", "집을 나갔", "유기", "연락두절"},
	},
	CategoryChildAbuse: {
		Weight:   3.0,
		Keywords: []string{"아동학대", "아이를 때", "애를 때", "방임"},
	},
	CategorySubstance: {
		Weight:   2.0,
		Keywords: []string{"음주", "술만 마시", "알코올", "마약", "중독"},
	},
	CategoryMedical: {
		Weight:   2.5,
		Keywords: []string{"병원", "진단서", "치료", "상해", "응급실", "입원"},
	},
}

// NewDefault constructs the production lexicon with the default negation
// filter.  The default tables are validated in tests; a corrupt table is a
// programmer error and refuses to construct.
func NewDefault() *Lexicon {
	lex, err := New(defaultEntries, NewNegationFilter())
	if err != nil {
		panic(err)
	}
	return lex
}

// New constructs a Lexicon from explicit category tables.  Returns an
// ErrCodeLexiconInvalid error when a category has no keywords or a
// non-positive weight; callers must treat that as fatal at startup.
func New(entries map[Category]Entry, nf *NegationFilter) (*Lexicon, error) {
	if nf == nil {
		nf = NewNegationFilter()
	}
	for cat, e := range entries {
		if len(e.Keywords) == 0 {
			return nil, errors.Newf(errors.ErrCodeLexiconInvalid, "category %q has no keywords", cat)
		}
		if e.Weight <= 0 {
			return nil, errors.Newf(errors.ErrCodeLexiconInvalid, "category %q has non-positive weight %v", cat, e.Weight)
		}
	}
	// Copy so callers cannot mutate the table after construction.
	copied := make(map[Category]Entry, len(entries))
	for cat, e := range entries {
		kws := make([]string, len(e.Keywords))
		copy(kws, e.Keywords)
		copied[cat] = Entry{Keywords: kws, Weight: e.Weight}
	}
	return &Lexicon{entries: copied, negation: nf}, nil
}

// Weight returns the evidentiary weight of a category, 0 for unknown ones.
func (l *Lexicon) Weight(cat Category) float64 {
	return l.entries[cat].Weight
}

// Match performs case-insensitive, punctuation-tolerant keyword search over
// text and classifies every occurrence of every keyword through the negation
// filter.  A keyword mentioned twice yields two results, each with its own
// polarity: a negated first mention must not swallow an affirmed later one.
// Deduplication happens in EffectiveMatches.  Results are ordered by position.
func (l *Lexicon) Match(text string) []MatchResult {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lowered := strings.ToLower(text)
	clauses := splitClauses(lowered)

	var results []MatchResult

	base := 0 // token offset of the current clause within the whole text
	for _, clause := range clauses {
		tokens := tokenize(clause)
		for cat, entry := range l.entries {
			for _, kw := range entry.Keywords {
				for _, idx := range findKeyword(tokens, kw) {
					results = append(results, MatchResult{
						Keyword:    kw,
						Category:   cat,
						Weight:     entry.Weight,
						TokenIndex: base + idx,
						Negation:   l.negation.Classify(tokens, idx),
					})
				}
			}
		}
		base += len(tokens)
	}

	// Deterministic order: position first, keyword as tie-break so map
	// iteration order never leaks into results.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TokenIndex != results[j].TokenIndex {
			return results[i].TokenIndex < results[j].TokenIndex
		}
		return results[i].Keyword < results[j].Keyword
	})
	return results
}

// EffectiveMatches returns at most one match per keyword: the first
// occurrence that survives negation filtering.  AMBIGUOUS hits are kept: the
// filter is conservative about discarding evidence, so a keyword drops out
// only when every one of its mentions is clearly NEGATED.
func (l *Lexicon) EffectiveMatches(text string) []MatchResult {
	all := l.Match(text)
	if len(all) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(all))
	out := make([]MatchResult, 0, len(all))
	for _, m := range all {
		if m.Negation == NegationNegated || seen[m.Keyword] {
			continue
		}
		seen[m.Keyword] = true
		out = append(out, m)
	}
	return out
}

// EffectiveKeywords returns the non-negated keyword strings in
// first-occurrence order, deduplicated.
func (l *Lexicon) EffectiveKeywords(text string) []string {
	matches := l.EffectiveMatches(text)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Keyword)
	}
	return out
}

// EffectiveCategories returns the distinct categories with at least one
// non-negated hit, in first-occurrence order.
func (l *Lexicon) EffectiveCategories(text string) []Category {
	matches := l.EffectiveMatches(text)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[Category]bool, len(matches))
	var out []Category
	for _, m := range matches {
		if !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	return out
}

// findKeyword returns the indices of every token containing kw, matching
// multi-token keywords against the joined token stream.  Nil when absent.
func findKeyword(tokens []string, kw string) []int {
	var hits []int
	parts := strings.Fields(kw)
	if len(parts) == 1 {
		for i, tok := range tokens {
			if strings.Contains(tok, kw) {
				hits = append(hits, i)
			}
		}
		return hits
	}
	// Multi-token keyword: the first part must end a token prefix chain and
	// each following part must lead the next token.
	for i := 0; i+len(parts) <= len(tokens); i++ {
		if !strings.Contains(tokens[i], parts[0]) {
			continue
		}
		ok := true
		for j := 1; j < len(parts); j++ {
			if !strings.HasPrefix(tokens[i+j], parts[j]) {
				ok = false
				break
			}
		}
		if ok {
			hits = append(hits, i)
		}
	}
	return hits
}
