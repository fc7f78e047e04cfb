package labapi

import (
	"context"
	"fmt"

	"github.com/scienceol/labinv/pkg/repo/model"
)

func (c *Client) AllUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if err := c.get(ctx, "all-users", "all-users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, patch *model.UserPatch) error {
	return c.put(ctx, "update-user", fmt.Sprintf("update-user/%d", userID), patch, nil)
}

func (c *Client) CreateUser(ctx context.Context, user *model.NewUser) error {
	return c.post(ctx, "create-user", "create-user", user, nil)
}
