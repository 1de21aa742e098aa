package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Worker permissions
	PermissionEarningsRead  = "earnings:read"
	PermissionWithdraw      = "earnings:withdraw"
	PermissionJobApply      = "jobs:apply"
	PermissionJobRead       = "jobs:read"

	// Employer permissions
	PermissionJobPost        = "jobs:post"
	PermissionApplicationMgr = "applications:manage"

	// Shared user permissions
	PermissionChangePassword = "user:change-password"
	PermissionBillingWrite   = "billing:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionJobRead,
			PermissionJobPost,
			PermissionJobApply,
			PermissionApplicationMgr,
			PermissionEarningsRead,
			PermissionWithdraw,
			PermissionBillingWrite,
			PermissionChangePassword,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case RoleEmployer:
		return []string{
			PermissionJobRead,
			PermissionJobPost,
			PermissionApplicationMgr,
			PermissionBillingWrite,
			PermissionChangePassword,
		}
	case RoleWorker:
		return []string{
			PermissionJobRead,
			PermissionJobApply,
			PermissionEarningsRead,
			PermissionWithdraw,
			PermissionBillingWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
