package repo

import (
	"context"

	"github.com/scienceol/labinv/pkg/repo/model"
)

// Directory is the user directory of the remote laboratory API.
type Directory interface {
	AllUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, userID int64, patch *model.UserPatch) error
	CreateUser(ctx context.Context, user *model.NewUser) error
}

type Inventory interface {
	CreateMaterial(ctx context.Context, material *model.Material) (int64, error)
	CreateInventoryLog(ctx context.Context, log *model.InventoryLog) error
}

type Catalog interface {
	// FilteredSuppliers returns the raw comma separated ids hidden from userID.
	FilteredSuppliers(ctx context.Context, userID int64) (string, error)
	UnfilteredSuppliers(ctx context.Context, userID int64) ([]*model.Supplier, error)
	Categories(ctx context.Context) ([]*model.Category, error)
	CreateSupplier(ctx context.Context, supplier *model.NewSupplier) (*model.Supplier, error)
	CreateCategory(ctx context.Context, category *model.NewCategory) (*model.Category, error)
}

// LabAPI is the full remote surface, implemented by labapi.Client.
type LabAPI interface {
	Directory
	Inventory
	Catalog
	Ping(ctx context.Context) error
}
