package labapi

import (
	"context"
	"fmt"

	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/repo/model"
)

func (c *Client) CreateMaterial(ctx context.Context, material *model.Material) (int64, error) {
	created := &model.MaterialCreated{}
	if err := c.post(ctx, "material/create", "material/create", material, created); err != nil {
		return 0, err
	}
	if created.MaterialID <= 0 {
		return 0, code.RPCHttpCodeRespErr.WithMsgf("material/create returned material id %d", created.MaterialID)
	}
	return created.MaterialID, nil
}

func (c *Client) CreateInventoryLog(ctx context.Context, log *model.InventoryLog) error {
	return c.post(ctx, "inventory-log", "inventory-log", log, nil)
}

func (c *Client) FilteredSuppliers(ctx context.Context, userID int64) (string, error) {
	var ids string
	if err := c.get(ctx, "filtered-suppliers", fmt.Sprintf("filtered-suppliers/%d", userID), &ids); err != nil {
		return "", err
	}
	return ids, nil
}

func (c *Client) UnfilteredSuppliers(ctx context.Context, userID int64) ([]*model.Supplier, error) {
	suppliers := make([]*model.Supplier, 0)
	if err := c.get(ctx, "supplier/unfiltered", fmt.Sprintf("supplier/unfiltered/%d", userID), &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (c *Client) Categories(ctx context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	if err := c.get(ctx, "category/categories", "category/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateSupplier(ctx context.Context, supplier *model.NewSupplier) (*model.Supplier, error) {
	created := &model.Supplier{}
	if err := c.post(ctx, "supplier/create", "supplier/create", supplier, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) CreateCategory(ctx context.Context, category *model.NewCategory) (*model.Category, error) {
	created := &model.Category{}
	if err := c.post(ctx, "category/create", "category/create", category, created); err != nil {
		return nil, err
	}
	return created, nil
}
