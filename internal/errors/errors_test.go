package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "items", Message: "items must not be empty"},
		{Field: "clientId", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestConflictError_Creation(t *testing.T) {
	err := NewConflictError("status transition not allowed")

	assert.NotNil(t, err)
	assert.Equal(t, "status transition not allowed", err.Error())

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.NotNil(t, ce)
}

func TestConflictError_IsConflictError_WithOtherError(t *testing.T) {
	ce, ok := IsConflictError(errors.New("boom"))
	assert.False(t, ok)
	assert.Nil(t, ce)
}

func TestForbiddenError_Creation(t *testing.T) {
	err := NewForbiddenError("role may not change status")

	assert.NotNil(t, err)
	assert.Equal(t, "role may not change status", err.Error())

	fe, ok := IsForbiddenError(err)
	assert.True(t, ok)
	assert.NotNil(t, fe)
}

func TestForbiddenError_DistinctFromConflict(t *testing.T) {
	var err error = NewForbiddenError("no rights")

	_, isConflict := IsConflictError(err)
	assert.False(t, isConflict)

	_, isForbidden := IsForbiddenError(err)
	assert.True(t, isForbidden)
}

func TestUnauthorizedError_Creation(t *testing.T) {
	err := NewUnauthorizedError("missing token")

	ue, ok := IsUnauthorizedError(err)
	assert.True(t, ok)
	assert.Equal(t, "missing token", ue.Message)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
