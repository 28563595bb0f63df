package shared

import (
	"errors"

	"github.com/chamanguitech/backend/internal/domain/shared"
)

// AsTransactionFailure leaves domain errors untouched and wraps anything
// else as TRANSACTION_FAILED, keeping the cause's message and chain.
func AsTransactionFailure(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.WrapDomainError(shared.CodeTransactionFailed, err)
}
