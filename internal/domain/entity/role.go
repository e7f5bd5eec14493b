package entity

// Role is the closed set of account roles.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleInventoryAdmin Role = "inventory_admin"
	RoleOrderAdmin     Role = "order_admin"
	RoleSupportAdmin   Role = "support_admin"
	RoleContentAdmin   Role = "content_admin"
	RoleSuperAdmin     Role = "super_admin"
)

var allRoles = []Role{
	RoleCustomer,
	RoleInventoryAdmin,
	RoleOrderAdmin,
	RoleSupportAdmin,
	RoleContentAdmin,
	RoleSuperAdmin,
}

// ParseRole returns the role named s and whether it exists.
func ParseRole(s string) (Role, bool) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IsAdmin reports whether r is any back-office role.
func (r Role) IsAdmin() bool {
	return r != RoleCustomer && r.Valid()
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// AssignableAdminRoles are the roles a super admin may hand out through the
// user management endpoints. super_admin itself is never assignable there.
func AssignableAdminRoles() []Role {
	return []Role{RoleInventoryAdmin, RoleOrderAdmin, RoleSupportAdmin, RoleContentAdmin}
}

// AssignableRoles includes customer for demotions.
func AssignableRoles() []Role {
	return append([]Role{RoleCustomer}, AssignableAdminRoles()...)
}

// Capability is something a route requires of the caller.
type Capability string

const (
	CapManageInventory Capability = "manage_inventory"
	CapManageOrders    Capability = "manage_orders"
	CapManageSupport   Capability = "manage_support"
	CapManageContent   Capability = "manage_content"
	CapSuperAdmin      Capability = "super_admin"
	CapAnyAdmin        Capability = "any_admin"
)

var capabilityRoles = map[Capability][]Role{
	CapManageInventory: {RoleInventoryAdmin},
	CapManageOrders:    {RoleOrderAdmin},
	CapManageSupport:   {RoleSupportAdmin},
	CapManageContent:   {RoleContentAdmin},
	CapSuperAdmin:      {},
}

// Allow is the single authorization policy. super_admin satisfies every capability.
func Allow(role Role, capability Capability) bool {
	if role == RoleSuperAdmin {
		return true
	}
	if capability == CapAnyAdmin {
		return role.IsAdmin()
	}
	for _, r := range capabilityRoles[capability] {
		if r == role {
			return true
		}
	}
	return false
}
