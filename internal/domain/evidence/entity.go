// Package evidence holds the evidence-item aggregate attached to a case and
// its persistence port.
package evidence

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// validEvidenceTypes is the closed set accepted from clients.
var validEvidenceTypes = map[types.EvidenceType]bool{
	types.EvidencePhoto:         true,
	types.EvidenceChatLog:       true,
	types.EvidenceRecording:     true,
	types.EvidenceVideo:         true,
	types.EvidenceMedicalRecord: true,
	types.EvidencePoliceReport:  true,
	types.EvidenceBankStatement: true,
	types.EvidenceDocument:      true,
	types.EvidenceWitness:       true,
}

// Item is one evidence record attached to a case.  AttachmentKey points at the
// raw file in object storage when one was uploaded.
type Item struct {
	ID              common.ID          `json:"id"`
	CaseID          common.ID          `json:"case_id"`
	EvidenceType    types.EvidenceType `json:"evidence_type"`
	LegalCategories []string           `json:"legal_categories"`
	FaultParty      common.Party       `json:"fault_party"`
	Description     string             `json:"description,omitempty"`
	AttachmentKey   string             `json:"attachment_key,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewItem constructs a validated evidence item.
func NewItem(caseID common.ID, et types.EvidenceType, categories []string, faultParty common.Party, description string) (*Item, error) {
	if caseID == "" {
		return nil, errors.NewValidationError("case_id", "must not be empty")
	}
	if !validEvidenceTypes[et] {
		return nil, errors.Newf(errors.ErrCodeEvidenceInvalid, "unknown evidence type %q", et)
	}
	if faultParty != "" && !faultParty.Valid() {
		return nil, errors.Newf(errors.ErrCodeEvidenceInvalid, "unknown fault party %q", faultParty)
	}
	return &Item{
		ID:              common.ID(uuid.NewString()),
		CaseID:          caseID,
		EvidenceType:    et,
		LegalCategories: categories,
		FaultParty:      faultParty,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// ToAnalysis converts the stored item into the analysis-core value object.
func (i *Item) ToAnalysis() types.Evidence {
	return types.Evidence{
		EvidenceID:      i.ID,
		LegalCategories: i.LegalCategories,
		EvidenceType:    i.EvidenceType,
		FaultParty:      i.FaultParty,
		Description:     i.Description,
	}
}
