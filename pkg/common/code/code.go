package code

import (
	"errors"
	"fmt"
)

type ErrCode int

const (
	Success ErrCode = 0

	UnDefineErr ErrCode = 1000 + iota
	ParamErr
	UnLogin
	NoPermission
	RecordNotFound
	RPCHttpErr
	RPCHttpCodeErr
	RPCHttpCodeRespErr
	NotifySendMsgErr
	NotifyActionAlreadyRegistryErr
	ViewStateLoadErr
	ViewStateSaveErr
	LockAcquireErr
	ExportErr
)

const (
	DirectoryFetchErr ErrCode = 2000 + iota
	DirectoryInvalidRecordErr
	UnknownSortColumnErr
	UnknownFacetErr
	UserStatusInvalidErr
	UserDeletedErr
	UserUpdateErr
	UserDeleteErr
	UserCreateErr
)

const (
	FormValidationErr ErrCode = 3000 + iota
	MaterialCreateErr
	InventoryLogOrphanErr
	SubmitInFlightErr
	SupplierQueryErr
	SupplierHideErr
	SupplierRestoreErr
	SupplierCreateErr
	CategoryQueryErr
	CategoryCreateErr
	PersonnelQueryErr
)

var codeMsg = map[ErrCode]string{
	Success:                        "success",
	UnDefineErr:                    "undefined error",
	ParamErr:                       "parameter error",
	UnLogin:                        "not logged in",
	NoPermission:                   "no permission",
	RecordNotFound:                 "record not found",
	RPCHttpErr:                     "remote api request failed",
	RPCHttpCodeErr:                 "remote api returned an error status",
	RPCHttpCodeRespErr:             "remote api returned an unexpected body",
	NotifySendMsgErr:               "send notify message failed",
	NotifyActionAlreadyRegistryErr: "notify action already registered",
	ViewStateLoadErr:               "load view state failed",
	ViewStateSaveErr:               "save view state failed",
	LockAcquireErr:                 "acquire lock failed",
	ExportErr:                      "export failed",

	DirectoryFetchErr:         "Failed to fetch users",
	DirectoryInvalidRecordErr: "user record has an unexpected shape",
	UnknownSortColumnErr:      "unknown sort column",
	UnknownFacetErr:           "unknown filter facet",
	UserStatusInvalidErr:      "invalid account status",
	UserDeletedErr:            "deleted accounts cannot be changed",
	UserUpdateErr:             "Account update failed!",
	UserDeleteErr:             "Failed to delete user",
	UserCreateErr:             "Account creation failed!",

	FormValidationErr:     "form validation failed",
	MaterialCreateErr:     "Failed to create material",
	InventoryLogOrphanErr: "Failed to create inventory log",
	SubmitInFlightErr:     "a submission is already in progress",
	SupplierQueryErr:      "Failed to fetch suppliers",
	SupplierHideErr:       "Archiving supplier failed!",
	SupplierRestoreErr:    "Unarchiving supplier failed!",
	SupplierCreateErr:     "Supplier creation failed!",
	CategoryQueryErr:      "Failed to fetch categories",
	CategoryCreateErr:     "Category creation failed!",
	PersonnelQueryErr:     "Failed to fetch users",
}

func (c ErrCode) String() string {
	if msg, ok := codeMsg[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

func (c ErrCode) Error() string { return c.String() }

func (c ErrCode) WithMsg(msg string) *Err {
	return &Err{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *Err {
	return &Err{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *Err {
	e := &Err{Code: c, err: err}
	if err != nil {
		e.Msg = err.Error()
	}
	return e
}

// Err is an ErrCode carrying a request specific message and an optional cause.
type Err struct {
	Code ErrCode
	Msg  string
	err  error
}

func (e *Err) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Msg
}

func (e *Err) Unwrap() error { return e.err }

// Is matches either another *Err or a bare ErrCode with the same code.
func (e *Err) Is(target error) bool {
	switch t := target.(type) {
	case ErrCode:
		return e.Code == t
	case *Err:
		return e.Code == t.Code
	}
	return false
}

// From extracts the ErrCode of err, UnDefineErr when err carries none.
func From(err error) ErrCode {
	if err == nil {
		return Success
	}
	var e *Err
	if errors.As(err, &e) {
		return e.Code
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c
	}
	return UnDefineErr
}
