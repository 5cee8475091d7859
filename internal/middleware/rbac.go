package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/response"
)

// RequireRole allows the request only when the token's role is one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		if len(roles) == 1 && roles[0] == model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
	}
}

// RequireStaff allows admins and teachers.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin, model.RoleTeacher)
}

// RequireSelfOrStaff lets staff through and restricts student tokens to the
// student record named by the path parameter.
func RequireSelfOrStaff(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role.IsStaff() {
			c.Next()
			return
		}

		id, err := strconv.Atoi(c.Param(param))
		if err != nil {
			response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}

		own := claims.OwnStudentID()
		if own == nil || *own != id {
			response.AbortFail(c, http.StatusForbidden, response.ErrOwnRecordsOnly)
			return
		}
		c.Next()
	}
}
