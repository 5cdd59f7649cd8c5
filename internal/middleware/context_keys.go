package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated actor in the request context.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated actor from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok && userID != ""
	}

	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}
