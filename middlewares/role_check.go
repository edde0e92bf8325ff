package middlewares

import (
	"fmt"
	"net/http"

	"github.com/dineplan/tablebook/utils"
	"github.com/gin-gonic/gin"
)

// RequireRoles aborts unless the authenticated role is one of the
// given roles. Tenant-level scoping still happens in the services;
// this only gates the route surface.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("insufficient role"))
		c.Abort()
	}
}
