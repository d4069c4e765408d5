// Package caserecord holds the litigation case aggregate: the case itself,
// its transcript and the persistence ports the application layer depends on.
package caserecord

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// Status is the lifecycle state of a case.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusAnalyzing Status = "ANALYZING"
	StatusAnalyzed  Status = "ANALYZED"
	StatusClosed    Status = "CLOSED"
)

// MaxTranscriptMessages bounds a single transcript upload.  Larger transcripts
// are rejected with ErrCodeTranscriptTooLarge before any analysis work starts.
const MaxTranscriptMessages = 50_000

// Case is one divorce litigation case under analysis.
type Case struct {
	ID            common.ID `json:"id"`
	Title         string    `json:"title"`
	PlaintiffName string    `json:"plaintiff_name"`
	DefendantName string    `json:"defendant_name"`
	Status        Status    `json:"status"`
	TotalAssets   int64     `json:"total_assets"`
	TotalDebts    int64     `json:"total_debts"`
	// TranscriptKey is the object-storage key of the uploaded transcript,
	// empty until one is uploaded.
	TranscriptKey string    `json:"transcript_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SetTranscript records the object key of the stored transcript.
func (c *Case) SetTranscript(objectKey string) {
	c.TranscriptKey = objectKey
	c.UpdatedAt = time.Now().UTC()
}

// NewCase constructs a valid OPEN case.
func NewCase(title, plaintiffName, defendantName string) (*Case, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(plaintiffName) == "" {
		return nil, errors.NewValidationError("plaintiff_name", "must not be empty")
	}
	if strings.TrimSpace(defendantName) == "" {
		return nil, errors.NewValidationError("defendant_name", "must not be empty")
	}
	now := time.Now().UTC()
	return &Case{
		ID:            common.ID(uuid.NewString()),
		Title:         strings.TrimSpace(title),
		PlaintiffName: strings.TrimSpace(plaintiffName),
		DefendantName: strings.TrimSpace(defendantName),
		Status:        StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetProperty records the marital estate figures.  Negative assets or debts
// are rejected; a negative net value is legitimate and allowed.
func (c *Case) SetProperty(totalAssets, totalDebts int64) error {
	if totalAssets < 0 {
		return errors.NewValidationError("total_assets", "must not be negative")
	}
	if totalDebts < 0 {
		return errors.NewValidationError("total_debts", "must not be negative")
	}
	c.TotalAssets = totalAssets
	c.TotalDebts = totalDebts
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Transition moves the case to a new status.  Only forward transitions and
// re-analysis of an already analyzed case are permitted.
func (c *Case) Transition(to Status) error {
	allowed := map[Status][]Status{
		StatusOpen:      {StatusAnalyzing, StatusClosed},
		StatusAnalyzing: {StatusAnalyzed, StatusOpen},
		StatusAnalyzed:  {StatusAnalyzing, StatusClosed},
		StatusClosed:    {},
	}
	for _, s := range allowed[c.Status] {
		if s == to {
			c.Status = to
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return errors.Newf(errors.ErrCodeConflict, "cannot transition case from %s to %s", c.Status, to)
}

// ValidateTranscript rejects oversized transcripts up front.
func ValidateTranscript(msgs []types.Message) error {
	if len(msgs) > MaxTranscriptMessages {
		return errors.Newf(errors.ErrCodeTranscriptTooLarge,
			"transcript has %d messages, limit is %d", len(msgs), MaxTranscriptMessages)
	}
	return nil
}
