package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionLeaveApprove))
	assert.True(t, HasPermission(RoleEmployee, PermissionLeaveCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionLeaveApprove))
	assert.False(t, HasPermission(RoleEmployee, PermissionTaskReview))
	assert.False(t, HasPermission(Role("owner"), PermissionViewOwnProfile))
}

func TestEmployeePermissionsAreSubsetOfAdmin(t *testing.T) {
	for _, p := range RolePermissions[RoleEmployee] {
		assert.True(t, HasPermission(RoleAdmin, p), string(p))
	}
}
