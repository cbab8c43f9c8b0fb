package gate

import "fmt"

// Role is the closed set of account roles. Clients shop; the other roles are
// back-office roles.
type Role uint8

const (
	RoleClient Role = iota
	RoleSuperAdmin
	RoleStandard
	RoleCommercial
	RoleInventory
)

var roleCodes = [...]string{
	RoleClient:     "client",
	RoleSuperAdmin: "super_admin",
	RoleStandard:   "standard",
	RoleCommercial: "commercial",
	RoleInventory:  "inventory",
}

// String returns the stored code of the role.
func (r Role) String() string {
	if int(r) < len(roleCodes) {
		return roleCodes[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ParseRole maps a stored code back to a Role. The empty code is a client.
func ParseRole(code string) (Role, error) {
	if code == "" {
		return RoleClient, nil
	}
	for r, c := range roleCodes {
		if c == code {
			return Role(r), nil
		}
	}
	return RoleClient, fmt.Errorf("%w: %q", ErrUnknownRole, code)
}

// Capability is a back-office permission. Capabilities combine as bit flags.
type Capability uint16

const (
	ManageAdmins Capability = 1 << iota
	ManageItems
	ManageClients
	ManageDiscounts
	ManageOrders
	ViewStats
	ViewReports

	allCapabilities = ManageAdmins | ManageItems | ManageClients | ManageDiscounts |
		ManageOrders | ViewStats | ViewReports
)

var capabilityNames = map[Capability]string{
	ManageAdmins:    "manage_admins",
	ManageItems:     "manage_items",
	ManageClients:   "manage_clients",
	ManageDiscounts: "manage_discounts",
	ManageOrders:    "manage_orders",
	ViewStats:       "view_stats",
	ViewReports:     "view_reports",
}

func (c Capability) String() string {
	if n, ok := capabilityNames[c]; ok {
		return n
	}
	return fmt.Sprintf("capability(%#x)", uint16(c))
}

var roleCapabilities = map[Role]Capability{
	RoleClient:     0,
	RoleSuperAdmin: allCapabilities,
	RoleStandard:   allCapabilities &^ ManageAdmins,
	RoleCommercial: ManageClients | ManageDiscounts | ManageOrders | ViewStats | ViewReports,
	RoleInventory:  ManageItems,
}

// Capabilities returns the capability set granted to r.
func (r Role) Capabilities() Capability {
	return roleCapabilities[r]
}

// Can reports whether r holds every capability in c.
func (r Role) Can(c Capability) bool {
	return c != 0 && r.Capabilities()&c == c
}

// IsBackOffice reports whether r is one of the admin roles.
func (r Role) IsBackOffice() bool {
	return r != RoleClient && r.Capabilities() != 0
}
