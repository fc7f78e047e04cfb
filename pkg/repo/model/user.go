package model

// Laboratory is the lab object embedded in a user record.
type Laboratory struct {
	LabID   int64  `json:"labId"`
	LabName string `json:"labName"`
}

// User is a record of GET all-users.
type User struct {
	UserID            int64      `json:"userId"`
	FirstName         string     `json:"firstName"`
	MiddleName        *string    `json:"middleName"`
	LastName          string     `json:"lastName"`
	Designation       string     `json:"designation"`
	LabID             int64      `json:"labId"`
	Laboratory        Laboratory `json:"laboratory"`
	Email             *string    `json:"email"`
	PhoneNumber       string     `json:"phoneNumber"`
	Username          string     `json:"username"`
	Status            string     `json:"status"`
	FilteredSuppliers *string    `json:"filteredSuppliers,omitempty"`
}

// UserPatch is the partial body of PUT update-user/{id}; nil fields are omitted.
type UserPatch struct {
	Status            *string `json:"status,omitempty"`
	FilteredSuppliers *string `json:"filteredSuppliers,omitempty"`
}

type NewUser struct {
	FirstName   string  `json:"firstName"`
	MiddleName  *string `json:"middleName,omitempty"`
	LastName    string  `json:"lastName"`
	Designation string  `json:"designation"`
	LabID       int64   `json:"labId"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
}
