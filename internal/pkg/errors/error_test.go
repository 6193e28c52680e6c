package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndStatus(t *testing.T) {
	err := New(ErrInvalidParams, "mode is unknown")
	assert.Equal(t, ErrInvalidParams, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "mode is unknown")
}

func TestWrapKeepsExistingCode(t *testing.T) {
	inner := New(ErrProvider)
	wrapped := Wrap(fmt.Errorf("call failed: %w", inner), ErrInternalServer)
	assert.Equal(t, ErrProvider, wrapped.Code)
	assert.Equal(t, http.StatusBadGateway, wrapped.HTTPStatus())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternalServer))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError(cause)
	require.Equal(t, ErrPersistence, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestExtractCode(t *testing.T) {
	assert.Equal(t, ErrProvider, ExtractCode(New(ErrProvider)))
	assert.Equal(t, ErrInternalServer, ExtractCode(errors.New("plain")))
}

func TestUnknownCodeDefaults(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(9999))
	assert.Equal(t, "Internal server error", GetMessage(9999))
}
