package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	if userID, exists := c.Get(string(userIDKey)); exists {
		id, ok := userID.(int64)
		return id, ok
	}
	if c.Request != nil {
		if id, ok := c.Request.Context().Value(userIDKey).(int64); ok {
			return id, true
		}
	}
	return 0, false
}
