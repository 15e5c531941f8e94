package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RespondWithError aborts the request with a {"error": message} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// TenantID reads the tenant set by AuthMiddleware. On failure the response
// has already been written.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(ContextTenantID)
	if !exists {
		RespondWithError(c, 401, "Tenant ID not found in context")
		return uuid.Nil, false
	}
	str, _ := raw.(string)
	id, err := uuid.Parse(str)
	if err != nil {
		RespondWithError(c, 500, "Invalid tenant ID format")
		return uuid.Nil, false
	}
	return id, true
}

// ParamUUID parses a path parameter as a UUID, answering 400 when it is not.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondWithError(c, 400, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
