package persistence

import (
	"errors"
	"fmt"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// translate maps gorm.ErrRecordNotFound to a NOT_FOUND domain error and
// wraps anything else with the failed operation.
func translate(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(entity, id)
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}

// expectOne turns an UPDATE/DELETE result that touched no row into NOT_FOUND.
func expectOne(result *gorm.DB, entity string, id uuid.UUID) error {
	if result.Error != nil {
		return fmt.Errorf("%s %s: %w", entity, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(entity, id)
	}
	return nil
}
