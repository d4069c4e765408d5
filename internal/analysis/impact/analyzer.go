package impact

import (
	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// categoryToFault translates the classifier's legal-category tags into fault
// types.  Categories without an entry (divorce context, medical corroboration)
// carry no fault of their own.
var categoryToFault = map[string]types.FaultType{
	string(lexicon.CategoryAdultery):      types.FaultAdultery,
	string(lexicon.CategoryViolence):      types.FaultViolence,
	string(lexicon.CategoryVerbalAbuse):   types.FaultVerbalAbuse,
	string(lexicon.CategoryEconomicAbuse): types.FaultEconomicAbuse,
	string(lexicon.CategoryDesertion):     types.FaultDesertion,
	string(lexicon.CategoryFinancial):     types.FaultFinancialMisconduct,
	string(lexicon.CategoryChildAbuse):    types.FaultChildAbuse,
	string(lexicon.CategorySubstance):     types.FaultSubstanceAbuse,
}

// faultPriority orders fault types by gravity for evidence that carries
// several category tags; the gravest mapped fault wins.
var faultPriority = []types.FaultType{
	types.FaultViolence,
	types.FaultChildAbuse,
	types.FaultAdultery,
	types.FaultFinancialMisconduct,
	types.FaultEconomicAbuse,
	types.FaultSubstanceAbuse,
	types.FaultVerbalAbuse,
	types.FaultDesertion,
}

// FaultFromCategories resolves upstream legal-category tags to a single fault
// type.  Returns ok=false when none of the tags maps — the evidence is then
// excluded from impact calculation entirely, not scored as zero.
func FaultFromCategories(categories []string) (types.FaultType, bool) {
	present := make(map[types.FaultType]bool, len(categories))
	for _, c := range categories {
		if ft, ok := categoryToFault[c]; ok {
			present[ft] = true
		}
	}
	if len(present) == 0 {
		return "", false
	}
	for _, ft := range faultPriority {
		if present[ft] {
			return ft, true
		}
	}
	return "", false
}

// confidence parameters: a base for any mapped classification, raised per
// distinct affirmed keyword backing the winning category.
const (
	confidenceBase    = 0.5
	confidencePerHit  = 0.1
	confidenceCeiling = 0.95
)

// Analyzer maps evidence items to EvidenceImpact values via the rule table
// and the negation-aware classifier.
type Analyzer struct {
	table *RuleTable
	lex   *lexicon.Lexicon
}

// NewAnalyzer constructs an impact analyzer.
func NewAnalyzer(table *RuleTable, lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{table: table, lex: lex}
}

// AnalyzeEvidence resolves one evidence item into its division impact.
// Returns nil when the fault type cannot be determined; callers must treat
// nil as "excluded", never as a zero-point impact.
func (a *Analyzer) AnalyzeEvidence(ev types.Evidence) *types.EvidenceImpact {
	ft, ok := FaultFromCategories(ev.LegalCategories)
	if !ok {
		return nil
	}
	rule, ok := a.table.RuleFor(ft)
	if !ok {
		return nil
	}

	value := SingleImpact(rule, ev.EvidenceType)

	// The party who committed the fault is disfavoured: the adjustment is
	// signed toward the opposing party.  Unset party defaults to defendant
	// (plaintiff-submitted evidence).
	faultParty := ev.FaultParty
	if !faultParty.Valid() {
		faultParty = common.PartyDefendant
	}
	direction := types.DirectionPlaintiffFavor
	if faultParty == common.PartyPlaintiff {
		direction = types.DirectionDefendantFavor
		value = -value
	}
	if value == 0 {
		direction = types.DirectionNeutral
	}

	return &types.EvidenceImpact{
		EvidenceID:  ev.EvidenceID,
		FaultType:   ft,
		ImpactValue: value,
		Direction:   direction,
		Confidence:  a.confidenceFor(ft, ev),
	}
}

// AnalyzeAll maps a batch of evidence, dropping excluded items.
func (a *Analyzer) AnalyzeAll(evidences []types.Evidence) []types.EvidenceImpact {
	out := make([]types.EvidenceImpact, 0, len(evidences))
	for _, ev := range evidences {
		if imp := a.AnalyzeEvidence(ev); imp != nil {
			out = append(out, *imp)
		}
	}
	return out
}

// confidenceFor derives the classifier confidence from the evidence
// description: each distinct affirmed keyword of the winning fault's category
// raises it from the base toward the ceiling.  Descriptions with no affirmed
// hits (or no description at all) stay at the base.
func (a *Analyzer) confidenceFor(ft types.FaultType, ev types.Evidence) float64 {
	conf := confidenceBase
	if ev.Description == "" {
		return conf
	}
	var wantCat lexicon.Category
	for cat, mapped := range categoryToFault {
		if mapped == ft {
			wantCat = lexicon.Category(cat)
			break
		}
	}
	affirmed := make(map[string]bool)
	for _, m := range a.lex.Match(ev.Description) {
		if m.Category == wantCat && m.Negation == lexicon.NegationAffirmed {
			affirmed[m.Keyword] = true
		}
	}
	conf += confidencePerHit * float64(len(affirmed))
	if conf > confidenceCeiling {
		conf = confidenceCeiling
	}
	return conf
}
