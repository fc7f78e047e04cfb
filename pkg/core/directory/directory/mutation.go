package directory

import (
	"context"

	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/directory"
	"github.com/scienceol/labinv/pkg/core/directory/projection"
	"github.com/scienceol/labinv/pkg/core/notify"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/repo/model"
)

// target finds a mutable user in a fresh read of the directory, not the
// stored view, which another session may have outdated. Users hidden from the
// session by role narrowing are not found.
func (d *directoryImpl) target(ctx context.Context, sess *auth.Session, userID int64) (*projection.User, error) {
	users, err := d.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID != userID {
			continue
		}
		if common.Status(users[i].Status).IsDeleted() {
			return nil, code.UserDeletedErr
		}
		return &users[i], nil
	}
	return nil, code.RecordNotFound.WithMsgf("user %d not found", userID)
}

func (d *directoryImpl) UpdateStatus(ctx context.Context, sess *auth.Session, req *directory.StatusReq) (*directory.MutationResp, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	status := common.Status(req.Status)
	if !status.Editable() {
		return nil, code.UserStatusInvalidErr.WithMsgf("invalid account status: %s", req.Status)
	}
	if _, err := d.target(ctx, sess, req.UserID); err != nil {
		return nil, err
	}

	s := string(status)
	if err := d.users.UpdateUser(ctx, req.UserID, &model.UserPatch{Status: &s}); err != nil {
		logger.Errorf(ctx, "update user %d status err: %+v", req.UserID, err)
		return nil, code.UserUpdateErr.WithMsg(repo.ServerMessage(err, code.UserUpdateErr.String()))
	}
	return d.afterMutation(ctx, sess, StatusChangedMsg, map[string]any{"userId": req.UserID, "status": s})
}

func (d *directoryImpl) Delete(ctx context.Context, sess *auth.Session, req *directory.DeleteReq) (*directory.MutationResp, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	if _, err := d.target(ctx, sess, req.UserID); err != nil {
		return nil, err
	}

	s := string(common.StatusDeleted)
	if err := d.users.UpdateUser(ctx, req.UserID, &model.UserPatch{Status: &s}); err != nil {
		logger.Errorf(ctx, "delete user %d err: %+v", req.UserID, err)
		return nil, code.UserDeleteErr.WithMsg(repo.ServerMessage(err, code.UserDeleteErr.String()))
	}
	return d.afterMutation(ctx, sess, UserDeletedMsg, map[string]any{"userId": req.UserID, "status": s})
}

func (d *directoryImpl) CreateUser(ctx context.Context, sess *auth.Session, req *directory.CreateUserReq) (*directory.MutationResp, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	if sess.Role == common.Admin && common.IsAdministratorDesignation(req.Designation) {
		return nil, code.NoPermission.WithMsgf("%s cannot create %s accounts", sess.Role, req.Designation)
	}

	err := d.users.CreateUser(ctx, &model.NewUser{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Designation: req.Designation,
		LabID:       req.LabID,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Username:    req.Username,
		Password:    req.Password,
	})
	if err != nil {
		logger.Errorf(ctx, "create user %s err: %+v", req.Username, err)
		return nil, code.UserCreateErr.WithMsg(repo.ServerMessage(err, code.UserCreateErr.String()))
	}
	return d.afterMutation(ctx, sess, UserCreatedMsg, map[string]any{"username": req.Username})
}

// afterMutation re-reads the authoritative collection and tells other viewers.
// A failed broadcast does not fail the mutation.
func (d *directoryImpl) afterMutation(ctx context.Context, sess *auth.Session, msg string, data any) (*directory.MutationResp, error) {
	if err := d.msgCenter.Broadcast(ctx, &notify.SendMsg{
		Channel: notify.DirectoryModify,
		UserID:  sess.UserID,
		Data:    data,
	}); err != nil {
		logger.Warnf(ctx, "broadcast directory modify err: %+v", err)
	}

	res, err := d.refetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &directory.MutationResp{Message: msg, View: res}, nil
}
