package projection

import (
	"cmp"
	"slices"

	"github.com/scienceol/labinv/pkg/common/code"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Column string

const (
	ColumnUserID      Column = "userId"
	ColumnLastName    Column = "lastName"
	ColumnFirstName   Column = "firstName"
	ColumnMiddleName  Column = "middleName"
	ColumnDesignation Column = "designation"
	ColumnLaboratory  Column = "laboratory"
	ColumnLabID       Column = "labId"
	ColumnEmail       Column = "email"
	ColumnUsername    Column = "username"
	ColumnStatus      Column = "status"
	ColumnPhoneNumber Column = "phoneNumber"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

var stringColumns = map[Column]func(*User) string{
	ColumnLastName:    func(u *User) string { return u.LastName },
	ColumnFirstName:   func(u *User) string { return u.FirstName },
	ColumnMiddleName:  func(u *User) string { return u.MiddleName },
	ColumnDesignation: func(u *User) string { return u.Designation },
	ColumnLaboratory:  func(u *User) string { return u.Laboratory },
	ColumnEmail:       func(u *User) string { return u.Email },
	ColumnUsername:    func(u *User) string { return u.Username },
	ColumnStatus:      func(u *User) string { return u.Status },
	ColumnPhoneNumber: func(u *User) string { return u.PhoneNumber },
}

var numericColumns = map[Column]func(*User) int64{
	ColumnUserID: func(u *User) int64 { return u.UserID },
	ColumnLabID:  func(u *User) int64 { return u.LabID },
}

func (c Column) Valid() bool {
	_, s := stringColumns[c]
	_, n := numericColumns[c]
	return s || n
}

// Next is the sort after clicking column: the same column flips direction,
// a new column starts ascending.
func (s *Sort) Next(column Column) (*Sort, error) {
	if !column.Valid() {
		return nil, code.UnknownSortColumnErr.WithMsgf("unknown sort column: %s", column)
	}
	if s != nil && s.Column == column && s.Direction == Asc {
		return &Sort{Column: column, Direction: Desc}, nil
	}
	return &Sort{Column: column, Direction: Asc}, nil
}

// SortUsers returns a stably sorted copy. A nil sort keeps the input order.
func SortUsers(users []User, s *Sort) []User {
	out := slices.Clone(users)
	if s == nil {
		return out
	}

	var compare func(a, b *User) int
	if get, ok := stringColumns[s.Column]; ok {
		col := collate.New(language.English)
		compare = func(a, b *User) int { return col.CompareString(get(a), get(b)) }
	} else if get, ok := numericColumns[s.Column]; ok {
		compare = func(a, b *User) int { return cmp.Compare(get(a), get(b)) }
	} else {
		return out
	}

	slices.SortStableFunc(out, func(a, b User) int {
		if s.Direction == Desc {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
	return out
}

// ByLastName is the base order of a freshly fetched collection.
func ByLastName(users []User) []User {
	return SortUsers(users, &Sort{Column: ColumnLastName, Direction: Asc})
}
