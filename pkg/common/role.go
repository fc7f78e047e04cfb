package common

import "strings"

// Role is the session role string the login flow stores for a user.
type Role string

const (
	SuperAdmin          Role = "superadmin"
	Admin               Role = "admin"
	LabManager          Role = "lab manager"
	MedicalTechnologist Role = "medical technologist"
	Researcher          Role = "researcher"
	Student             Role = "student"
	Technician          Role = "technician"
)

// IsAdministrator reports whether r may open the user management screen.
func (r Role) IsAdministrator() bool {
	return r == Admin || r == SuperAdmin
}

// IsAdministratorDesignation matches the designations hidden from plain admins.
func IsAdministratorDesignation(designation string) bool {
	return designation == string(Admin) || designation == string(SuperAdmin)
}

type Status string

const (
	StatusActive            Status = "Active"
	StatusInactive          Status = "Inactive"
	StatusDeleted           Status = "Deleted"
	StatusUnverifiedEmail   Status = "Unverified Email"
	StatusUnapprovedAccount Status = "Unapproved Account"
)

// EditableStatuses are the targets offered by the status selector.
var EditableStatuses = []Status{
	StatusActive,
	StatusInactive,
	StatusUnverifiedEmail,
	StatusUnapprovedAccount,
}

func (s Status) IsDeleted() bool {
	return strings.EqualFold(string(s), string(StatusDeleted))
}

func (s Status) IsActive() bool {
	return strings.EqualFold(string(s), string(StatusActive))
}

func (s Status) Editable() bool {
	for _, e := range EditableStatuses {
		if s == e {
			return true
		}
	}
	return false
}
