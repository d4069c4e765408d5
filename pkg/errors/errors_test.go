package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeCaseNotFound, "case missing")

	assert.Equal(t, ErrCodeCaseNotFound, err.Code)
	assert.Equal(t, "case missing", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Error(), "CaseNotFound")
	assert.Contains(t, err.Error(), "CASE_001")
}

func TestError_WithDetail(t *testing.T) {
	base := New(ErrCodeEvidenceNotFound, "evidence missing")
	detailed := base.WithDetail("id=ev-42")

	assert.Empty(t, base.Detail, "receiver must not be mutated")
	assert.Equal(t, "id=ev-42", detailed.Detail)
	assert.Contains(t, detailed.Error(), "id=ev-42")

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeDatabaseError, "query failed")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "ignored"))
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := New(ErrCodePrecedentIndexDown, "milvus unreachable")
	outer := Wrap(inner, ErrCodeExternalService, "precedent search failed")
	wrapped := fmt.Errorf("predict: %w", outer)

	assert.True(t, IsCode(wrapped, ErrCodePrecedentIndexDown))
	assert.True(t, IsCode(wrapped, ErrCodeExternalService))
	assert.False(t, IsCode(wrapped, ErrCodeCaseNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeCaseNotFound, "x")))
	assert.True(t, IsNotFound(NotFound("generic")))
	assert.True(t, IsNotFound(fmt.Errorf("outer: %w", New(ErrCodeAnalysisNotFound, "x"))))
	assert.False(t, IsNotFound(New(ErrCodeTimeout, "x")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(nil))
	assert.Equal(t, ErrCodeValidation, GetCode(NewValidationError("case_id", "bad")))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, ErrCodeCaseNotFound.HTTPStatus())
	assert.Equal(t, 400, ErrCodeValidation.HTTPStatus())
	assert.Equal(t, 503, ErrCodePrecedentIndexDown.HTTPStatus())
	assert.Equal(t, 500, ErrCodeInternal.HTTPStatus())
	assert.Equal(t, 500, ErrorCode("UNKNOWN_999").HTTPStatus())
}
