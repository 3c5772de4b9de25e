package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorMessageIncludesInternal(t *testing.T) {
	inner := errors.New("dial timeout")
	appErr := Wrap(inner, "database unavailable")

	require.Equal(t, "database unavailable: dial timeout", appErr.Error())
	require.ErrorIs(t, appErr, inner)
}

func TestWithInternalDoesNotMutateOriginal(t *testing.T) {
	wrapped := ErrNotFound.WithInternal(errors.New("row missing"))

	require.Nil(t, ErrNotFound.Internal)
	require.NotNil(t, wrapped.Internal)
	require.Equal(t, ErrNotFound.Code, wrapped.Code)
	require.Equal(t, ErrNotFound.StatusCode, wrapped.StatusCode)
}

func TestFromError(t *testing.T) {
	require.Nil(t, FromError(nil))

	appErr := FromError(ErrForbidden)
	require.Same(t, ErrForbidden, appErr)

	wrapped := FromError(fmt.Errorf("outer: %w", ErrConflict))
	require.Equal(t, ErrConflict.Code, wrapped.Code)

	generic := FromError(errors.New("boom"))
	require.Equal(t, ErrInternalServer.Code, generic.Code)
	require.Equal(t, http.StatusInternalServerError, generic.StatusCode)
}

func TestNewValidation(t *testing.T) {
	err := NewValidation("rating", "must be between 1 and 5")
	require.Equal(t, "VALIDATION_FAILURE", err.Code)
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.Equal(t, "rating: must be between 1 and 5", err.Message)
}

func TestForbiddenDistinctFromNotFound(t *testing.T) {
	require.NotEqual(t, ErrForbidden.Code, ErrNotFound.Code)
	require.NotEqual(t, ErrForbidden.StatusCode, ErrNotFound.StatusCode)
}
