// Package common holds the scalar types and small value objects shared by
// every layer of the evidentia platform.
package common

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// Party identifies one side of a divorce proceeding.
type Party string

const (
	PartyPlaintiff Party = "plaintiff"
	PartyDefendant Party = "defendant"
)

// Valid reports whether p is one of the two recognised parties.
func (p Party) Valid() bool {
	return p == PartyPlaintiff || p == PartyDefendant
}

// RiskLevel represents case-level risk severity.  The zero-like default is
// RiskLow; levels are totally ordered LOW < MEDIUM < HIGH < CRITICAL.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// riskRank implements the total order over risk levels.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Rank returns the ordinal position of the level; unknown values rank as LOW.
func (r RiskLevel) Rank() int {
	return riskRank[r]
}

// Max returns the higher of the two levels.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.Rank() > r.Rank() {
		return other
	}
	return r
}

// Validate checks if the ID is a valid UUID v4.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// ContextKey is the type for request-context keys.
type ContextKey string

const (
	// ContextKeyRequestID is the context key for request ID.
	ContextKeyRequestID ContextKey = "request_id"
)
