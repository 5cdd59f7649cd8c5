package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader carries the client supplied transaction reference.
const IdempotencyHeader = "Idempotency-Key"

const idempotencyKey = contextKey("idempotencyKey")

const maxIdempotencyKeyLength = 64

// IdempotencyKey copies the Idempotency-Key header into the Gin context so that
// handlers can use it as the transaction reference.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key must be at most 64 characters"})
			return
		}
		if key != "" {
			c.Set(string(idempotencyKey), key)
		}
		c.Next()
	}
}

// GetIdempotencyKey returns the key captured by IdempotencyKey, if any.
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(string(idempotencyKey))
}
