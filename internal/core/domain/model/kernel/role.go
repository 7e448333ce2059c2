package kernel

import (
	"fmt"

	"posadmin/internal/pkg/errs"
)

// Role identifies the authorization level of an actor performing an
// operation. Roles are supplied by the external identity provider and are
// trusted as given; the engine only decides what each role may do.
//
// The role is always passed explicitly into authorization decisions and
// is never read from ambient or global state.
type Role string

const (
	// RoleAdmin is a store administrator with full purchase-order control.
	RoleAdmin Role = "Admin"
	// RoleOwner is the store owner with full purchase-order control.
	RoleOwner Role = "Owner"
	// RoleStaff is an authenticated store employee.
	RoleStaff Role = "Staff"
	// RoleWarehouse is an authenticated warehouse employee.
	RoleWarehouse Role = "Warehouse"
)

// ParseRole converts an identity-provider role string into a Role.
// Returns an error for unrecognized values.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

// Validate checks that the Role is one of the known values.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleOwner, RoleStaff, RoleWarehouse:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"role",
		fmt.Errorf("%q is not a valid role", string(r)),
	)
}

// IsManager reports whether the role carries managerial authority.
// Only managers may approve, confirm, or revert purchase orders.
func (r Role) IsManager() bool {
	return r == RoleAdmin || r == RoleOwner
}

// String returns the role name as supplied by the identity provider.
func (r Role) String() string {
	return string(r)
}
