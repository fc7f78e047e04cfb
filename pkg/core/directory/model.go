package directory

import (
	"github.com/scienceol/labinv/pkg/core/directory/projection"
)

type SearchReq struct {
	Query string `json:"query"`
}

// FacetReq toggles Value in Facet. Clear empties Facet, or every facet when
// Facet is empty.
type FacetReq struct {
	Facet projection.Facet `json:"facet"`
	Value string           `json:"value"`
	Clear bool             `json:"clear"`
}

type SortReq struct {
	Column projection.Column `json:"column" binding:"required"`
}

type PageReq struct {
	Page int `uri:"page"`
}

type StatusReq struct {
	UserID int64  `uri:"id" json:"-" binding:"required,gt=0"`
	Status string `json:"status" binding:"required,user_status"`
}

type DeleteReq struct {
	UserID int64 `uri:"id" binding:"required,gt=0"`
}

type CreateUserReq struct {
	FirstName   string  `json:"firstName" binding:"required"`
	MiddleName  *string `json:"middleName"`
	LastName    string  `json:"lastName" binding:"required"`
	Designation string  `json:"designation" binding:"required"`
	LabID       int64   `json:"labId" binding:"required,gt=0"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber string  `json:"phoneNumber"`
	Username    string  `json:"username" binding:"required"`
	Password    string  `json:"password" binding:"required,min=8"`
}

type MutationResp struct {
	Message string             `json:"message"`
	View    *projection.Result `json:"view"`
}

type ExportFile struct {
	Name string
	Data []byte
}
