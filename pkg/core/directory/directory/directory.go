package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/olahol/melody"
	"github.com/scienceol/labinv/internal/config"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/directory"
	"github.com/scienceol/labinv/pkg/core/directory/projection"
	"github.com/scienceol/labinv/pkg/core/notify"
	"github.com/scienceol/labinv/pkg/core/notify/events"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/repo/labapi"
	"github.com/scienceol/labinv/pkg/repo/model"
	"github.com/scienceol/labinv/pkg/repo/viewstate"
	"github.com/scienceol/labinv/pkg/utils"
)

const (
	StatusChangedMsg = "Account status changed successful!"
	UserDeletedMsg   = "User Deleted successfully!"
	UserCreatedMsg   = "Account created successfully!"
)

type directoryImpl struct {
	users     repo.Directory
	store     repo.StateStore
	msgCenter notify.MsgCenter
	wsClient  *melody.Melody
	pageSize  int
	stateTTL  time.Duration
}

func NewDirectory(ctx context.Context, wsClient *melody.Melody) directory.Service {
	d := NewService(labapi.New(), viewstate.NewStore(), events.NewEvents(), wsClient)
	if err := d.msgCenter.Registry(ctx, notify.DirectoryModify, d.OnDirectoryNotify); err != nil {
		logger.Errorf(ctx, "Registry DirectoryModify fail err: %+v", err)
	}
	return d
}

// NewService wires explicit collaborators; wsClient may be nil.
func NewService(users repo.Directory, store repo.StateStore, msgCenter notify.MsgCenter, wsClient *melody.Melody) *directoryImpl {
	conf := config.Global().Directory
	return &directoryImpl{
		users:     users,
		store:     store,
		msgCenter: msgCenter,
		wsClient:  wsClient,
		pageSize:  conf.PageSize,
		stateTTL:  conf.ViewStateTTL,
	}
}

func stateKey(sess *auth.Session) string {
	return "directory:view:" + sess.ViewKey.String()
}

// fetch loads the authoritative collection as sess may see it.
func (d *directoryImpl) fetch(ctx context.Context, sess *auth.Session) ([]projection.User, error) {
	records, err := d.users.AllUsers(ctx)
	if err != nil {
		logger.Errorf(ctx, "fetch users err: %+v", err)
		return nil, code.DirectoryFetchErr.WithMsg(repo.ServerMessage(err, code.DirectoryFetchErr.String()))
	}

	users := make([]projection.User, 0, len(records))
	for _, rec := range records {
		if err := validate(rec); err != nil {
			logger.Errorf(ctx, "fetch users invalid record err: %+v", err)
			return nil, err
		}
		if sess.Role == common.Admin && common.IsAdministratorDesignation(rec.Designation) {
			continue
		}
		users = append(users, normalize(rec))
	}
	return users, nil
}

func validate(u *model.User) error {
	switch {
	case u == nil:
		return code.DirectoryInvalidRecordErr.WithMsg("null user record")
	case u.UserID <= 0:
		return code.DirectoryInvalidRecordErr.WithMsgf("user record has invalid userId %d", u.UserID)
	case u.FirstName == "" || u.LastName == "":
		return code.DirectoryInvalidRecordErr.WithMsgf("user %d has no name", u.UserID)
	case u.Designation == "":
		return code.DirectoryInvalidRecordErr.WithMsgf("user %d has no designation", u.UserID)
	case u.Status == "":
		return code.DirectoryInvalidRecordErr.WithMsgf("user %d has no status", u.UserID)
	case u.Username == "":
		return code.DirectoryInvalidRecordErr.WithMsgf("user %d has no username", u.UserID)
	}
	return nil
}

func normalize(u *model.User) projection.User {
	return projection.User{
		UserID:      u.UserID,
		LastName:    u.LastName,
		FirstName:   u.FirstName,
		MiddleName:  utils.SafeValue(u.MiddleName),
		Designation: u.Designation,
		Laboratory:  u.Laboratory.LabName,
		LabID:       u.LabID,
		Email:       utils.SafeValue(u.Email),
		Username:    u.Username,
		Status:      u.Status,
		PhoneNumber: u.PhoneNumber,
	}
}

func (d *directoryImpl) load(ctx context.Context, sess *auth.Session) (*projection.View, error) {
	data, err := d.store.Get(ctx, stateKey(sess))
	if errors.Is(err, repo.ErrStateNotFound) {
		return d.mount(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	view := &projection.View{}
	if err := json.Unmarshal(data, view); err != nil {
		logger.Warnf(ctx, "drop unreadable view state err: %+v", err)
		return d.mount(ctx, sess)
	}
	return view, nil
}

func (d *directoryImpl) mount(ctx context.Context, sess *auth.Session) (*projection.View, error) {
	users, err := d.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	return projection.NewView(users, d.pageSize), nil
}

func (d *directoryImpl) save(ctx context.Context, sess *auth.Session, view *projection.View) error {
	data, err := json.Marshal(view)
	if err != nil {
		return code.ViewStateSaveErr.WithErr(err)
	}
	return d.store.Set(ctx, stateKey(sess), data, d.stateTTL)
}

// apply runs one synchronous transition over the stored view.
func (d *directoryImpl) apply(ctx context.Context, sess *auth.Session, fn func(*projection.View) error) (*projection.Result, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	view, err := d.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(view); err != nil {
			return nil, err
		}
	}
	if err := d.save(ctx, sess, view); err != nil {
		return nil, err
	}
	return view.Result(), nil
}

// Mount reads the directory again on every page request. Facets, query and
// sort of a stored view survive the refetch.
func (d *directoryImpl) Mount(ctx context.Context, sess *auth.Session) (*projection.Result, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	return d.refetch(ctx, sess)
}

// Unmount drops the view state of a session that signed out.
func (d *directoryImpl) Unmount(ctx context.Context, sess *auth.Session) error {
	if sess == nil {
		return nil
	}
	return d.store.Del(ctx, stateKey(sess))
}

// refetch replaces the collection of an existing view, keeping facets, query
// and sort, or mounts a fresh one.
func (d *directoryImpl) refetch(ctx context.Context, sess *auth.Session) (*projection.Result, error) {
	users, err := d.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}

	view := projection.NewView(users, d.pageSize)
	data, err := d.store.Get(ctx, stateKey(sess))
	if err == nil {
		stored := &projection.View{}
		if json.Unmarshal(data, stored) == nil {
			stored.Replace(users)
			view = stored
		}
	}

	if err := d.save(ctx, sess, view); err != nil {
		return nil, err
	}
	return view.Result(), nil
}

func (d *directoryImpl) Search(ctx context.Context, sess *auth.Session, req *directory.SearchReq) (*projection.Result, error) {
	return d.apply(ctx, sess, func(v *projection.View) error {
		v.Search(req.Query)
		return nil
	})
}

func (d *directoryImpl) Facet(ctx context.Context, sess *auth.Session, req *directory.FacetReq) (*projection.Result, error) {
	return d.apply(ctx, sess, func(v *projection.View) error {
		if req.Clear {
			return v.ClearFacet(req.Facet)
		}
		if req.Value == "" {
			return code.ParamErr.WithMsg("facet value is required")
		}
		return v.ToggleFacet(req.Facet, req.Value)
	})
}

func (d *directoryImpl) Sort(ctx context.Context, sess *auth.Session, req *directory.SortReq) (*projection.Result, error) {
	return d.apply(ctx, sess, func(v *projection.View) error {
		return v.SortBy(req.Column)
	})
}

func (d *directoryImpl) Page(ctx context.Context, sess *auth.Session, req *directory.PageReq) (*projection.Result, error) {
	return d.apply(ctx, sess, func(v *projection.View) error {
		v.SetPage(req.Page)
		return nil
	})
}

func (d *directoryImpl) Visible(ctx context.Context, sess *auth.Session) ([]projection.User, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	view, err := d.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	return view.Visible(), nil
}

func (d *directoryImpl) OnWSConnect(ctx context.Context, _ *melody.Session) error {
	logger.Infof(ctx, "directory ws connect")
	return nil
}

func (d *directoryImpl) OnDirectoryNotify(ctx context.Context, msg string) error {
	if d.wsClient == nil {
		return nil
	}
	return d.wsClient.Broadcast([]byte(msg))
}
