// Package analysis defines the public value objects exchanged between the
// evidentiary analysis core and its collaborators (API layer, persistence,
// workers).  Everything here is a plain immutable value: the core never
// mutates an instance after returning it, and callers serialize these types
// to their own storage or wire format.
package analysis

import (
	"time"

	"github.com/x-ordo/evidentia/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Inputs
// ─────────────────────────────────────────────────────────────────────────────

// Message is a single parsed chat message supplied by the upstream transcript
// pipeline.  Immutable once parsed; the core only reads it.
type Message struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Evidence is one piece of case evidence supplied by upstream parsers and
// classifiers.  LegalCategories carries the classifier's category tags;
// FaultParty names the party the evidence is asserted against.
type Evidence struct {
	EvidenceID      common.ID    `json:"evidence_id"`
	LegalCategories []string     `json:"legal_categories"`
	EvidenceType    EvidenceType `json:"evidence_type"`
	FaultParty      common.Party `json:"fault_party"`
	Description     string       `json:"description,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Closed enums
// ─────────────────────────────────────────────────────────────────────────────

// FaultType is a legally recognised cause for divorce / property-division skew.
type FaultType string

const (
	FaultAdultery            FaultType = "ADULTERY"
	FaultViolence            FaultType = "VIOLENCE"
	FaultVerbalAbuse         FaultType = "VERBAL_ABUSE"
	FaultEconomicAbuse       FaultType = "ECONOMIC_ABUSE"
	FaultDesertion           FaultType = "DESERTION"
	FaultFinancialMisconduct FaultType = "FINANCIAL_MISCONDUCT"
	FaultChildAbuse          FaultType = "CHILD_ABUSE"
	FaultSubstanceAbuse      FaultType = "SUBSTANCE_ABUSE"
)

// AllFaultTypes lists every member of the closed FaultType enum.
var AllFaultTypes = []FaultType{
	FaultAdultery,
	FaultViolence,
	FaultVerbalAbuse,
	FaultEconomicAbuse,
	FaultDesertion,
	FaultFinancialMisconduct,
	FaultChildAbuse,
	FaultSubstanceAbuse,
}

// EvidenceType is the medium of an evidence item.
type EvidenceType string

const (
	EvidencePhoto         EvidenceType = "PHOTO"
	EvidenceChatLog       EvidenceType = "CHAT_LOG"
	EvidenceRecording     EvidenceType = "RECORDING"
	EvidenceVideo         EvidenceType = "VIDEO"
	EvidenceMedicalRecord EvidenceType = "MEDICAL_RECORD"
	EvidencePoliceReport  EvidenceType = "POLICE_REPORT"
	EvidenceBankStatement EvidenceType = "BANK_STATEMENT"
	EvidenceDocument      EvidenceType = "DOCUMENT"
	EvidenceWitness       EvidenceType = "WITNESS"
)

// ImpactDirection states which side a division adjustment favours.
type ImpactDirection string

const (
	DirectionPlaintiffFavor ImpactDirection = "PLAINTIFF_FAVOR"
	DirectionDefendantFavor ImpactDirection = "DEFENDANT_FAVOR"
	DirectionNeutral        ImpactDirection = "NEUTRAL"
)

// ConfidenceLevel labels how well-corroborated a DivisionPrediction is.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scoring and risk outputs
// ─────────────────────────────────────────────────────────────────────────────

// ScoringResult is the per-message evidentiary value produced by the scorer.
// Score is always within [0,10]; MatchedKeywords preserves first-occurrence
// order with duplicates removed.
type ScoringResult struct {
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
	Reasoning       string   `json:"reasoning"`
}

// RiskAssessment is the case-level safety triage result.  RiskLevel is the
// maximum severity over matched patterns, LOW when none matched.
type RiskAssessment struct {
	RiskLevel       common.RiskLevel `json:"risk_level"`
	RiskFactors     []string         `json:"risk_factors"`
	Warnings        []string         `json:"warnings"`
	Recommendations []string         `json:"recommendations"`
}

// AnalysisSummary carries the denormalised display counts of an AnalysisResult.
// Values are copied from the already-computed fields, never recomputed.
type AnalysisSummary struct {
	TotalMessages    int              `json:"total_messages"`
	AverageScore     float64          `json:"average_score"`
	HighValueCount   int              `json:"high_value_count"`
	RiskLevel        common.RiskLevel `json:"risk_level"`
	RiskFactorCount  int              `json:"risk_factor_count"`
	DistinctKeywords int              `json:"distinct_keywords"`
}

// AnalysisResult aggregates one full case analysis.
type AnalysisResult struct {
	CaseID            common.ID       `json:"case_id"`
	TotalMessages     int             `json:"total_messages"`
	AverageScore      float64         `json:"average_score"`
	HighValueMessages []ScoringResult `json:"high_value_messages"`
	RiskAssessment    RiskAssessment  `json:"risk_assessment"`
	Summary           AnalysisSummary `json:"summary"`
	AnalyzedAt        time.Time       `json:"analyzed_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Division prediction outputs
// ─────────────────────────────────────────────────────────────────────────────

// EvidenceImpact is the bounded, directional percentage-point adjustment one
// evidence item contributes to the division baseline.  |ImpactValue| never
// exceeds the fault type's rule maximum.
type EvidenceImpact struct {
	EvidenceID  common.ID       `json:"evidence_id"`
	FaultType   FaultType       `json:"fault_type"`
	ImpactValue float64         `json:"impact_value"`
	Direction   ImpactDirection `json:"direction"`
	Confidence  float64         `json:"confidence"`
}

// DivisionRatio is a plaintiff/defendant split in integer percentage points.
// Plaintiff + Defendant always equals 100.
type DivisionRatio struct {
	Plaintiff int `json:"plaintiff"`
	Defendant int `json:"defendant"`
}

// SimilarCase is one adjudicated precedent returned by the vector index.
type SimilarCase struct {
	CaseRef         string        `json:"case_ref"`
	Court           string        `json:"court"`
	DecisionDate    time.Time     `json:"decision_date"`
	DivisionRatio   DivisionRatio `json:"division_ratio"`
	KeyFactors      []string      `json:"key_factors"`
	SimilarityScore float64       `json:"similarity_score"`
}

// DivisionPrediction is the aggregated property-division forecast.
// PlaintiffRatio + DefendantRatio == 100 and PlaintiffAmount +
// DefendantAmount == NetValue hold unconditionally.
type DivisionPrediction struct {
	TotalPropertyValue int64            `json:"total_property_value"`
	TotalDebtValue     int64            `json:"total_debt_value"`
	NetValue           int64            `json:"net_value"`
	PlaintiffRatio     int              `json:"plaintiff_ratio"`
	DefendantRatio     int              `json:"defendant_ratio"`
	PlaintiffAmount    int64            `json:"plaintiff_amount"`
	DefendantAmount    int64            `json:"defendant_amount"`
	EvidenceImpacts    []EvidenceImpact `json:"evidence_impacts"`
	SimilarCases       []SimilarCase    `json:"similar_cases"`
	ConfidenceLevel    ConfidenceLevel  `json:"confidence_level"`
	PredictedAt        time.Time        `json:"predicted_at"`
}
