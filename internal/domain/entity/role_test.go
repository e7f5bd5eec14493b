package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name string
		role Role
		cap  Capability
		want bool
	}{
		{"super admin passes everything", RoleSuperAdmin, CapManageInventory, true},
		{"super admin passes super admin", RoleSuperAdmin, CapSuperAdmin, true},
		{"inventory admin on inventory", RoleInventoryAdmin, CapManageInventory, true},
		{"inventory admin on orders", RoleInventoryAdmin, CapManageOrders, false},
		{"order admin on orders", RoleOrderAdmin, CapManageOrders, true},
		{"support admin on support", RoleSupportAdmin, CapManageSupport, true},
		{"content admin on content", RoleContentAdmin, CapManageContent, true},
		{"content admin not super", RoleContentAdmin, CapSuperAdmin, false},
		{"customer any admin", RoleCustomer, CapAnyAdmin, false},
		{"support admin any admin", RoleSupportAdmin, CapAnyAdmin, true},
		{"unknown role any admin", Role("root"), CapAnyAdmin, false},
		{"customer on inventory", RoleCustomer, CapManageInventory, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.role, tt.cap))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("order_admin")
	assert.True(t, ok)
	assert.Equal(t, RoleOrderAdmin, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestAssignableRolesExcludeSuperAdmin(t *testing.T) {
	assert.NotContains(t, AssignableAdminRoles(), RoleSuperAdmin)
	assert.NotContains(t, AssignableRoles(), RoleSuperAdmin)
	assert.Contains(t, AssignableRoles(), RoleCustomer)
}
