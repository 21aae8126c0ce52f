package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf_UnwrapsChains(t *testing.T) {
	base := New(CodeNotFound, "item not found")
	wrapped := fmt.Errorf("handling request: %w", base)

	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeNotFound))
}

func TestCodeOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodePersistence, "get item", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodePersistence, CodeOf(err))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(CodeFormat))
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, ToHTTPStatus(CodeDecode))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(CodePersistence))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("unknown")))
}
