package errors

// ErrorCode is a string representation of a specific error condition.
// Codes are stable identifiers: they appear in API responses, logs and metric
// labels, so existing values must never be renumbered.
type ErrorCode string

// ─────────────────────────────────────────────────────────────────────────────
// Common codes (COMMON_xxx)
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"
)

// ─────────────────────────────────────────────────────────────────────────────
// Case / evidence codes (CASE_xxx)
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeCaseNotFound       ErrorCode = "CASE_001"
	ErrCodeCaseAlreadyExists  ErrorCode = "CASE_002"
	ErrCodeEvidenceNotFound   ErrorCode = "CASE_003"
	ErrCodeEvidenceInvalid    ErrorCode = "CASE_004"
	ErrCodeTranscriptTooLarge ErrorCode = "CASE_005"
)

// ─────────────────────────────────────────────────────────────────────────────
// Analysis codes (ANALYSIS_xxx)
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeAnalysisNotFound   ErrorCode = "ANALYSIS_001"
	ErrCodeImpactTableInvalid ErrorCode = "ANALYSIS_002"
	ErrCodeRiskTableInvalid   ErrorCode = "ANALYSIS_003"
	ErrCodeLexiconInvalid     ErrorCode = "ANALYSIS_004"
)

// ─────────────────────────────────────────────────────────────────────────────
// Precedent search codes (PRECEDENT_xxx)
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodePrecedentSearchFailed ErrorCode = "PRECEDENT_001"
	ErrCodePrecedentIndexDown    ErrorCode = "PRECEDENT_002"
)

// codeNames maps each code to its symbolic name for Error() output.
var codeNames = map[ErrorCode]string{
	ErrCodeInternal:           "Internal",
	ErrCodeBadRequest:         "BadRequest",
	ErrCodeNotFound:           "NotFound",
	ErrCodeConflict:           "Conflict",
	ErrCodeTimeout:            "Timeout",
	ErrCodeValidation:         "Validation",
	ErrCodeSerialization:      "Serialization",
	ErrCodeDatabaseError:      "DatabaseError",
	ErrCodeCacheError:         "CacheError",
	ErrCodeExternalService:    "ExternalService",
	ErrCodeServiceUnavailable: "ServiceUnavailable",
	ErrCodeNotImplemented:     "NotImplemented",

	ErrCodeCaseNotFound:       "CaseNotFound",
	ErrCodeCaseAlreadyExists:  "CaseAlreadyExists",
	ErrCodeEvidenceNotFound:   "EvidenceNotFound",
	ErrCodeEvidenceInvalid:    "EvidenceInvalid",
	ErrCodeTranscriptTooLarge: "TranscriptTooLarge",

	ErrCodeAnalysisNotFound:   "AnalysisNotFound",
	ErrCodeImpactTableInvalid: "ImpactTableInvalid",
	ErrCodeRiskTableInvalid:   "RiskTableInvalid",
	ErrCodeLexiconInvalid:     "LexiconInvalid",

	ErrCodePrecedentSearchFailed: "PrecedentSearchFailed",
	ErrCodePrecedentIndexDown:    "PrecedentIndexDown",
}

// String returns the symbolic name of the code, falling back to the raw value
// for codes added without a name entry.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return string(c)
}

// HTTPStatus maps an ErrorCode to the HTTP status the API layer should emit.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeEvidenceInvalid, ErrCodeTranscriptTooLarge:
		return 400
	case ErrCodeNotFound, ErrCodeCaseNotFound, ErrCodeEvidenceNotFound, ErrCodeAnalysisNotFound:
		return 404
	case ErrCodeConflict, ErrCodeCaseAlreadyExists:
		return 409
	case ErrCodeTimeout:
		return 504
	case ErrCodeServiceUnavailable, ErrCodePrecedentIndexDown:
		return 503
	case ErrCodeNotImplemented:
		return 501
	default:
		return 500
	}
}
