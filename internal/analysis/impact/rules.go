// Package impact turns classified evidence into bounded percentage-point
// adjustments of the 50:50 property-division baseline.  The rule table is a
// process-wide constant: values are domain-calibrated, loaded once, and a
// malformed table refuses to construct (a corrupt static table cannot be
// worked around per-request).
package impact

import (
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
)

// Rule bounds the division impact of one fault type.  SingleImpact scales
// BaseImpact by the evidence-type weight and clamps to ±MaxImpact.
type Rule struct {
	BaseImpact      float64
	MaxImpact       float64
	EvidenceWeights map[types.EvidenceType]float64
	// DefaultWeight applies to evidence types absent from EvidenceWeights,
	// making the weight lookup a total function.
	DefaultWeight float64
	Description   string
}

// Weight returns the evidence-type weight, falling back to DefaultWeight.
func (r Rule) Weight(et types.EvidenceType) float64 {
	if w, ok := r.EvidenceWeights[et]; ok {
		return w
	}
	return r.DefaultWeight
}

// defaultRules is the production impact table, in percentage points.
var defaultRules = map[types.FaultType]Rule{
	types.FaultAdultery: {
		BaseImpact:    10,
		MaxImpact:     10,
		DefaultWeight: 0.4,
		Description:   "배우자의 부정행위",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidencePhoto:     1.0,
			types.EvidenceVideo:     1.0,
			types.EvidenceChatLog:   0.8,
			types.EvidenceRecording: 0.7,
			types.EvidenceWitness:   0.5,
		},
	},
	types.FaultViolence: {
		BaseImpact:    15,
		MaxImpact:     15,
		DefaultWeight: 0.5,
		Description:   "배우자에 대한 폭행",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceMedicalRecord: 1.0,
			types.EvidencePoliceReport:  1.0,
			types.EvidenceVideo:         0.95,
			types.EvidencePhoto:         0.9,
			types.EvidenceRecording:     0.8,
			types.EvidenceChatLog:       0.6,
			types.EvidenceWitness:       0.5,
		},
	},
	types.FaultVerbalAbuse: {
		BaseImpact:    5,
		MaxImpact:     5,
		DefaultWeight: 0.4,
		Description:   "지속적 폭언·모욕",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceRecording: 1.0,
			types.EvidenceChatLog:   0.8,
			types.EvidenceWitness:   0.5,
		},
	},
	types.FaultEconomicAbuse: {
		BaseImpact:    8,
		MaxImpact:     8,
		DefaultWeight: 0.4,
		Description:   "경제적 통제·생활비 미지급",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceBankStatement: 1.0,
			types.EvidenceDocument:      0.7,
			types.EvidenceChatLog:       0.6,
		},
	},
	types.FaultDesertion: {
		BaseImpact:    7,
		MaxImpact:     7,
		DefaultWeight: 0.4,
		Description:   "악의의 유기",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceDocument: 0.8,
			types.EvidenceChatLog:  0.7,
			types.EvidenceWitness:  0.6,
		},
	},
	types.FaultFinancialMisconduct: {
		BaseImpact:    12,
		MaxImpact:     12,
		DefaultWeight: 0.4,
		Description:   "재산 은닉·무단 처분",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceBankStatement: 1.0,
			types.EvidenceDocument:      0.8,
			types.EvidenceChatLog:       0.5,
		},
	},
	types.FaultChildAbuse: {
		BaseImpact:    15,
		MaxImpact:     15,
		DefaultWeight: 0.5,
		Description:   "자녀에 대한 학대",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceMedicalRecord: 1.0,
			types.EvidencePoliceReport:  1.0,
			types.EvidenceVideo:         0.95,
			types.EvidenceRecording:     0.8,
			types.EvidenceWitness:       0.6,
		},
	},
	types.FaultSubstanceAbuse: {
		BaseImpact:    6,
		MaxImpact:     6,
		DefaultWeight: 0.4,
		Description:   "음주·약물 중독",
		EvidenceWeights: map[types.EvidenceType]float64{
			types.EvidenceMedicalRecord: 1.0,
			types.EvidencePoliceReport:  0.9,
			types.EvidenceWitness:       0.5,
		},
	},
}

// RuleTable is the immutable fault→rule mapping.
type RuleTable struct {
	rules map[types.FaultType]Rule
}

// NewDefaultRuleTable returns the production table.  The defaults are
// validated at construction; failure here is a programmer error.
func NewDefaultRuleTable() *RuleTable {
	table, err := NewRuleTable(defaultRules)
	if err != nil {
		panic(err)
	}
	return table
}

// NewRuleTable validates and installs an explicit rule set.  Every fault type
// of the closed enum must be covered; bounds and weights are range-checked.
// Any error is fatal at startup.
func NewRuleTable(rules map[types.FaultType]Rule) (*RuleTable, error) {
	for _, ft := range types.AllFaultTypes {
		rule, ok := rules[ft]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeImpactTableInvalid, "fault type %s has no rule", ft)
		}
		if rule.BaseImpact < 0 {
			return nil, errors.Newf(errors.ErrCodeImpactTableInvalid, "%s: base_impact %v is negative", ft, rule.BaseImpact)
		}
		if rule.MaxImpact < rule.BaseImpact {
			return nil, errors.Newf(errors.ErrCodeImpactTableInvalid, "%s: max_impact %v below base_impact %v", ft, rule.MaxImpact, rule.BaseImpact)
		}
		if rule.DefaultWeight < 0 || rule.DefaultWeight > 1 {
			return nil, errors.Newf(errors.ErrCodeImpactTableInvalid, "%s: default_weight %v outside [0,1]", ft, rule.DefaultWeight)
		}
		for et, w := range rule.EvidenceWeights {
			if w < 0 || w > 1 {
				return nil, errors.Newf(errors.ErrCodeImpactTableInvalid, "%s/%s: weight %v outside [0,1]", ft, et, w)
			}
		}
	}
	copied := make(map[types.FaultType]Rule, len(rules))
	for ft, rule := range rules {
		weights := make(map[types.EvidenceType]float64, len(rule.EvidenceWeights))
		for et, w := range rule.EvidenceWeights {
			weights[et] = w
		}
		rule.EvidenceWeights = weights
		copied[ft] = rule
	}
	return &RuleTable{rules: copied}, nil
}

// RuleFor returns the rule for a fault type.  The table is total over the
// closed enum, so ok is false only for values outside the enum.
func (t *RuleTable) RuleFor(ft types.FaultType) (Rule, bool) {
	rule, ok := t.rules[ft]
	return rule, ok
}

// SingleImpact computes one evidence item's percentage-point contribution:
// base × evidence weight, clamped to [-max, +max].
func SingleImpact(rule Rule, et types.EvidenceType) float64 {
	v := rule.BaseImpact * rule.Weight(et)
	if v > rule.MaxImpact {
		return rule.MaxImpact
	}
	if v < -rule.MaxImpact {
		return -rule.MaxImpact
	}
	return v
}
