package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/core_banking_ledger/internal/apperrors"
	"github.com/SscSPs/core_banking_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps err to a status through apperrors.HTTPStatus. Client
// errors echo the cause; server errors only return msg.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest reports a binding or parsing failure.
func badRequest(c *gin.Context, err error, msg string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// actorFromContext returns the authenticated actor or writes a 401.
func actorFromContext(c *gin.Context) (string, bool) {
	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actor, true
}

// referenceFor prefers the body reference over the Idempotency-Key header.
func referenceFor(c *gin.Context, bodyReference string) string {
	if bodyReference != "" {
		return bodyReference
	}
	return middleware.GetIdempotencyKey(c)
}
