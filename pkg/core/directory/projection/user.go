package projection

import (
	"github.com/scienceol/labinv/pkg/common"
)

// User is the normalized row the list works on.
type User struct {
	UserID      int64  `json:"userId"`
	LastName    string `json:"lastName"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	Designation string `json:"designation"`
	Laboratory  string `json:"laboratory"`
	LabID       int64  `json:"labId"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Status      string `json:"status"`
	PhoneNumber string `json:"phoneNumber"`
}

// searchText is the haystack of the free text query, lowercased by the caller.
func (u *User) searchText() string {
	return u.FirstName + " " + u.LastName + " " + u.MiddleName + "  " +
		u.Laboratory + " " + u.Designation + " " + u.Status
}

type Actions struct {
	Editable      bool            `json:"editable"`
	Deletable     bool            `json:"deletable"`
	StatusLabel   string          `json:"statusLabel"`
	StatusOptions []common.Status `json:"statusOptions"`
}

type Row struct {
	User
	Actions Actions `json:"actions"`
}

// ActionsFor locks Deleted rows to a static label.
func ActionsFor(u *User) Actions {
	if common.Status(u.Status).IsDeleted() {
		return Actions{
			StatusLabel:   string(common.StatusDeleted),
			StatusOptions: []common.Status{},
		}
	}
	return Actions{
		Editable:      true,
		Deletable:     true,
		StatusLabel:   u.Status,
		StatusOptions: common.EditableStatuses,
	}
}

func Rows(users []User) []Row {
	rows := make([]Row, 0, len(users))
	for i := range users {
		rows = append(rows, Row{User: users[i], Actions: ActionsFor(&users[i])})
	}
	return rows
}

// Options is the value catalogue of each facet.
type Options struct {
	Designation []string `json:"designation"`
	Laboratory  []string `json:"laboratory"`
	Status      []string `json:"status"`
}

var FacetOptions = Options{
	Designation: []string{"Admin", "Lab Manager", "Medical Technologist", "Researcher", "Student", "Technician"},
	Laboratory:  []string{"Pathology", "Immunology", "Microbiology"},
	Status: []string{
		string(common.StatusActive),
		string(common.StatusInactive),
		string(common.StatusDeleted),
		string(common.StatusUnverifiedEmail),
		string(common.StatusUnapprovedAccount),
	},
}
