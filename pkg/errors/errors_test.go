package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailsDoesNotMutateBase(t *testing.T) {
	err := WithDetails(ErrCourseHoursConflict, "Course Math requires 31 hours/week")

	assert.Equal(t, "Course Math requires 31 hours/week", err.Details)
	assert.Empty(t, ErrCourseHoursConflict.Details)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Contains(t, err.Error(), "31 hours")
}

func TestHasCodeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", Clone(ErrNoPublished, ""))

	assert.True(t, HasCode(wrapped, ErrNoPublished.Code))
	assert.False(t, HasCode(wrapped, ErrNotFound.Code))
	assert.False(t, HasCode(errors.New("plain"), ErrNotFound.Code))
}

func TestNoPublishedDistinctFromNotFound(t *testing.T) {
	assert.NotEqual(t, ErrNotFound.Code, ErrNoPublished.Code)
	assert.Equal(t, ErrNotFound.Status, ErrNoPublished.Status)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.EqualError(t, appErr.Unwrap(), "boom")
	assert.Nil(t, FromError(nil))
}
