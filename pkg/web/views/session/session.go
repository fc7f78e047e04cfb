package session

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/repo/model"
)

// LoginReq is what the external login flow hands over for a signed in user.
type LoginReq struct {
	UserID int64       `json:"userId" binding:"required,gt=0"`
	Role   common.Role `json:"role" binding:"required"`
}

type LoginResp struct {
	UserID   int64       `json:"userId"`
	Role     common.Role `json:"role"`
	Redirect string      `json:"redirect,omitempty"`
}

// ForgetFunc releases per session state held outside the cookie.
type ForgetFunc func(ctx context.Context, sess *auth.Session) error

type Handle struct {
	users  repo.Directory
	forget []ForgetFunc
}

func NewHandle(users repo.Directory, forget ...ForgetFunc) *Handle {
	return &Handle{users: users, forget: forget}
}

// Login opens a session only for an active directory user whose designation
// is the claimed role.
func (h *Handle) Login(ctx *gin.Context) {
	req := &LoginReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Login param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}

	if err := h.verify(ctx, req); err != nil {
		logger.Errorf(ctx, "login user %d as %s rejected: %+v", req.UserID, req.Role, err)
		common.ReplyErr(ctx, err)
		return
	}

	sess := &auth.Session{UserID: req.UserID, Role: req.Role}
	if err := auth.Login(ctx, sess); err != nil {
		logger.Errorf(ctx, "save session err: %+v", err)
		common.ReplyErr(ctx, code.UnDefineErr.WithErr(err))
		return
	}

	resp := &LoginResp{UserID: sess.UserID, Role: sess.Role}
	if !sess.IsAdministrator() {
		resp.Redirect = auth.LandingPath
	}
	common.ReplyOk(ctx, resp)
}

func (h *Handle) verify(ctx context.Context, req *LoginReq) error {
	records, err := h.users.AllUsers(ctx)
	if err != nil {
		return code.DirectoryFetchErr.WithMsg(repo.ServerMessage(err, code.DirectoryFetchErr.String()))
	}
	var rec *model.User
	for _, r := range records {
		if r != nil && r.UserID == req.UserID {
			rec = r
			break
		}
	}
	switch {
	case rec == nil:
		return code.NoPermission.WithMsgf("user %d not found", req.UserID)
	case !common.Status(rec.Status).IsActive():
		return code.NoPermission.WithMsgf("user %d is %s", req.UserID, rec.Status)
	case !strings.EqualFold(rec.Designation, string(req.Role)):
		return code.NoPermission.WithMsgf("user %d is not %s", req.UserID, req.Role)
	}
	return nil
}

func (h *Handle) Logout(ctx *gin.Context) {
	if sess := auth.Current(ctx); sess != nil {
		for _, forget := range h.forget {
			if err := forget(ctx, sess); err != nil {
				logger.Errorf(ctx, "release session %s state err: %+v", sess.ViewKey, err)
			}
		}
	}
	if err := auth.Logout(ctx); err != nil {
		logger.Errorf(ctx, "clear session err: %+v", err)
		common.ReplyErr(ctx, code.UnDefineErr.WithErr(err))
		return
	}
	common.ReplyOk(ctx)
}
