package ledger

import (
	"time"

	"github.com/google/uuid"
)

var zeroTime time.Time

func uuidOrNil(set bool) uuid.UUID {
	if set {
		return uuid.New()
	}
	return uuid.Nil
}
