package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/nkchq/projectboard/internal/errors"
)

// ParseIDParam reads a numeric URL parameter, answering 400 on garbage.
func ParseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// RequireSuperAdmin gates the management surface: projects, users, and
// membership assignment.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !actor.IsSuperAdmin() {
			apierrors.Forbidden(c, "Only the super-admin can perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}
