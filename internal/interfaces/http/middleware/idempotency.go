package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/logger"
	"github.com/chamanguitech/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyHeader names the client supplied submission key
	IdempotencyHeader = "Idempotency-Key"
	// MaxIdempotencyKeyLength bounds the header value
	MaxIdempotencyKeyLength = 128
	// DefaultIdempotencyTTL is used when no TTL is configured
	DefaultIdempotencyTTL = 24 * time.Hour
)

// Idempotency rejects a repeated Idempotency-Key with 409
// DUPLICATE_REQUEST. The key is claimed before the handler runs, so two
// concurrent submissions cannot both reach the ledger. A request that
// does not succeed releases its claim and may be retried with the same key.
// Requests without the header pass through untouched.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		ctx := c.Request.Context()
		scoped := idempotencyScope(c, key)
		first, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			// An unavailable store must not block payments.
			logger.L(ctx).Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !first {
			logger.L(ctx).Info("Duplicate submission rejected", zap.String("idempotency_key", key))
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed")
			return
		}

		defer func() {
			recovered := recover()
			if status := c.Writer.Status(); recovered != nil || status < 200 || status >= 300 {
				if err := store.Forget(context.WithoutCancel(ctx), scoped); err != nil {
					logger.L(ctx).Warn("Failed to release idempotency key", zap.Error(err))
				}
			}
			if recovered != nil {
				panic(recovered)
			}
		}()

		c.Next()
	}
}

// idempotencyScope keeps keys from different callers and routes apart
func idempotencyScope(c *gin.Context, key string) string {
	return strings.Join([]string{c.Request.Method, c.FullPath(), GetJWTUserID(c), key}, "|")
}
