package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("paper", "rnai-a-new-hope-2024")

	assert.Equal(t, "paper not found: rnai-a-new-hope-2024", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var nfe *NotFoundError
	require.True(t, errors.As(wrapped, &nfe))
	assert.Equal(t, "paper", nfe.Entity)
}

func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("paper", "39312809")

	assert.Equal(t, "paper already exists: 39312809", err.Error())
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("page_size", "must be positive")

	assert.Contains(t, err.Error(), "page_size")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRemoteError(t *testing.T) {
	t.Run("unwraps to remote unavailable", func(t *testing.T) {
		err := &RemoteError{
			Endpoint: "esearch",
			Kind:     ErrRemoteUnavailable,
			Cause:    errors.New("connection refused"),
		}
		assert.True(t, errors.Is(err, ErrRemoteUnavailable))
		assert.False(t, errors.Is(err, ErrMalformedResponse))
		assert.Contains(t, err.Error(), "esearch")
	})

	t.Run("unwraps to malformed response", func(t *testing.T) {
		err := &RemoteError{
			Endpoint:   "efetch",
			StatusCode: 200,
			Kind:       ErrMalformedResponse,
			Cause:      errors.New("unexpected EOF"),
		}
		assert.True(t, errors.Is(err, ErrMalformedResponse))
		assert.Contains(t, err.Error(), "status 200")
	})
}

func TestNormalizationError(t *testing.T) {
	err := NewNormalizationError("39312809", "authors", "author list absent")

	assert.Contains(t, err.Error(), "39312809")
	assert.Contains(t, err.Error(), "authors")

	var ne *NormalizationError
	wrapped := fmt.Errorf("record 3: %w", err)
	require.True(t, errors.As(wrapped, &ne))
	assert.Equal(t, "authors", ne.Field)
}
