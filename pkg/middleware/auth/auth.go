package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/uuid"
)

var USERKEY = "AUTH_USER_KEY"

const (
	sessionUserID  = "user_id"
	sessionRole    = "role"
	sessionViewKey = "view_key"

	// LandingPath is where non administrators are sent instead of the admin screen.
	LandingPath = "/lab/pathology"
)

// Session is the explicit caller identity handed to every core service.
// ViewKey scopes the caller's persisted list view state.
type Session struct {
	UserID  int64       `json:"user_id"`
	Role    common.Role `json:"role"`
	ViewKey uuid.UUID   `json:"view_key"`
}

func (s *Session) IsAdministrator() bool {
	return s != nil && s.Role.IsAdministrator()
}

// GetCurrentUser returns the session installed by Auth, nil outside a request.
func GetCurrentUser(ctx context.Context) *Session {
	gCtx, ok := ctx.(*gin.Context)
	if !ok {
		return nil
	}
	v, exists := gCtx.Get(USERKEY)
	if !exists {
		return nil
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil
	}
	return sess
}
