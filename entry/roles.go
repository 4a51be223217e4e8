package entry

import (
	"slices"
	"strings"
)

// Roles returns the assigned roles in insertion order.
func (e *Entry) Roles() []string {
	return append([]string{}, e.roles...)
}

// SetRoles replaces all roles. Each role is normalised the same way as in
// AddRole.
func (e *Entry) SetRoles(roles []string) *Entry {
	e.roles = nil
	for _, r := range roles {
		e.AddRole(r)
	}
	return e
}

// AddRole upper-cases role and appends it unless already present.
func (e *Entry) AddRole(role string) *Entry {
	role = strings.ToUpper(role)
	if !slices.Contains(e.roles, role) {
		e.roles = append(e.roles, role)
	}
	return e
}

// RemoveRole removes role, compared after upper-casing.
func (e *Entry) RemoveRole(role string) *Entry {
	role = strings.ToUpper(role)
	if i := slices.Index(e.roles, role); i >= 0 {
		e.roles = slices.Delete(e.roles, i, i+1)
	}
	return e
}

// HasRole reports whether role is assigned, ignoring case.
func (e *Entry) HasRole(role string) bool {
	return slices.Contains(e.roles, strings.ToUpper(role))
}
