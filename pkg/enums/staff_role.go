package enums

import "fmt"

// StaffRole identifies what a staff member is allowed to do at the counter.
type StaffRole string

const (
	StaffRoleManager      StaffRole = "manager"
	StaffRoleReceptionist StaffRole = "receptionist"
	StaffRoleService      StaffRole = "service_staff"
)

var validStaffRoles = []StaffRole{
	StaffRoleManager,
	StaffRoleReceptionist,
	StaffRoleService,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
