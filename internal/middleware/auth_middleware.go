package middleware

import (
	"net/http"
	"strings"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserEmail = "userEmail"
	ContextUserName  = "userName"
	ContextUserRole  = "userRole"
)

// Authenticator turns a bearer token into the principal it names.
type Authenticator interface {
	Authenticate(token string) (*models.SessionUser, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			c.Abort()
			return
		}

		user, err := auth.Authenticate(parts[1])
		if err != nil {
			utils.LogDebug("Rejected bearer token", map[string]interface{}{"error": err.Error(), "path": c.Request.URL.Path})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			c.Abort()
			return
		}

		c.Set(ContextUserEmail, user.Email)
		c.Set(ContextUserName, user.Name)
		c.Set(ContextUserRole, user.Role)

		c.Next()
	}
}

// CurrentUser returns the principal stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.SessionUser, bool) {
	email := c.GetString(ContextUserEmail)
	if email == "" {
		return nil, false
	}
	return &models.SessionUser{Email: email, Name: c.GetString(ContextUserName), Role: c.GetString(ContextUserRole)}, true
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the user role (from JWT claims) is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString(ContextUserRole)
		if roleStr == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims.", "AuthMiddleware must run first"))
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource. Required roles: "+strings.Join(allowedRoles, ", "), ""))
		c.Abort()
	}
}
