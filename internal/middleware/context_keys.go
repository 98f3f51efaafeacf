package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID in the Gin
// context. The ledger core treats this value as an opaque audit string.
const userIDKey = contextKey("userID")

// companyIDKey is the key used to store the caller's company scope.
const companyIDKey = contextKey("companyID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check the request context as well
		if v := c.Request.Context().Value(userIDKey); v != nil {
			if id, ok := v.(string); ok {
				return id, true
			}
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetCompanyIDFromContext retrieves the caller's company ID from the Gin context.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(string(companyIDKey))
	if !exists {
		return "", false
	}
	companyID, ok := v.(string)
	return companyID, ok
}
