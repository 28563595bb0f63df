package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsTransactionFailure(t *testing.T) {
	assert.NoError(t, AsTransactionFailure(nil))

	notFound := shared.NotFound("purchase", uuid.Nil)
	assert.Same(t, notFound, AsTransactionFailure(notFound))

	wrapped := fmt.Errorf("update: %w", notFound)
	assert.Same(t, wrapped, AsTransactionFailure(wrapped))

	cause := errors.New("connection reset")
	err := AsTransactionFailure(cause)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodeTransactionFailed, de.Code)
	assert.Equal(t, "connection reset", de.Message)
	assert.ErrorIs(t, err, cause)
}
