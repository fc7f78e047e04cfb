package directory

import (
	"bytes"
	"context"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/xuri/excelize/v2"

	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/common/uuid"
	"github.com/scienceol/labinv/pkg/core/directory"
	"github.com/scienceol/labinv/pkg/core/directory/projection"
	"github.com/scienceol/labinv/pkg/core/notify"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/repo/model"
	"github.com/scienceol/labinv/pkg/repo/viewstate"
)

type fakeDirectory struct {
	mu        sync.Mutex
	users     []*model.User
	fetches   int
	patches   map[int64]*model.UserPatch
	created   []*model.NewUser
	fetchErr  error
	updateErr error
}

func (f *fakeDirectory) AllUsers(context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDirectory) UpdateUser(_ context.Context, id int64, patch *model.UserPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.patches == nil {
		f.patches = map[int64]*model.UserPatch{}
	}
	f.patches[id] = patch
	for _, u := range f.users {
		if u.UserID == id && patch.Status != nil {
			u.Status = *patch.Status
		}
	}
	return nil
}

func (f *fakeDirectory) CreateUser(_ context.Context, u *model.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, u)
	return nil
}

type fakeCenter struct {
	sent []*notify.SendMsg
}

func (f *fakeCenter) Registry(context.Context, notify.Action, notify.HandleFunc) error { return nil }

func (f *fakeCenter) Broadcast(_ context.Context, msg *notify.SendMsg) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeCenter) Close(context.Context) error { return nil }

func strp(s string) *string { return &s }

func record(id int64, first, last, designation, lab, status string) *model.User {
	return &model.User{
		UserID:      id,
		FirstName:   first,
		LastName:    last,
		Designation: designation,
		LabID:       1,
		Laboratory:  model.Laboratory{LabID: 1, LabName: lab},
		Username:    first + last,
		Status:      status,
	}
}

func directoryFixture() *fakeDirectory {
	withMail := record(4, "Ana", "Cruz", "student", "Immunology", "Active")
	withMail.Email = strp("ana@lab.test")
	withMail.MiddleName = strp("Lopez")
	return &fakeDirectory{users: []*model.User{
		record(1, "Root", "Zulueta", "superadmin", "Pathology", "Active"),
		record(2, "Ad", "Mendoza", "admin", "Pathology", "Active"),
		record(3, "Leo", "Bautista", "technician", "Microbiology", "Deleted"),
		withMail,
		record(5, "Ella", "Aquino", "researcher", "Pathology", "Inactive"),
		record(6, "Ramon", "Garcia", "student", "Microbiology", "Unapproved Account"),
	}}
}

func newTestService(dir repo.Directory) (*directoryImpl, *fakeCenter) {
	center := &fakeCenter{}
	return NewService(dir, viewstate.NewMemoryStore(), center, nil), center
}

func session(role common.Role) *auth.Session {
	return &auth.Session{UserID: 99, Role: role, ViewKey: uuid.NewV4()}
}

func rowIDs(res *projection.Result) []int64 {
	out := []int64{}
	for _, r := range res.Rows {
		out = append(out, r.UserID)
	}
	return out
}

func TestMountNarrowsAdmins(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	svc, _ := newTestService(directoryFixture())
	res, err := svc.Mount(ctx, session(common.Admin))
	c.Assert(err, qt.IsNil)
	c.Assert(res.Total, qt.Equals, 4)
	c.Assert(res.TotalPages, qt.Equals, 1)
	c.Assert(rowIDs(res), qt.DeepEquals, []int64{5, 3, 4, 6})

	ana := res.Rows[2]
	c.Assert(ana.Email, qt.Equals, "ana@lab.test")
	c.Assert(ana.MiddleName, qt.Equals, "Lopez")
	c.Assert(ana.Laboratory, qt.Equals, "Immunology")
	c.Assert(res.Rows[0].Email, qt.Equals, "")

	res, err = svc.Mount(ctx, session(common.SuperAdmin))
	c.Assert(err, qt.IsNil)
	c.Assert(res.Total, qt.Equals, 6)
	c.Assert(res.TotalPages, qt.Equals, 2)
}

func TestMountRequiresSession(t *testing.T) {
	c := qt.New(t)
	svc, _ := newTestService(directoryFixture())
	_, err := svc.Mount(context.Background(), nil)
	c.Assert(err, qt.ErrorIs, code.UnLogin)
}

func TestMountFailsOnInvalidRecord(t *testing.T) {
	c := qt.New(t)
	dir := directoryFixture()
	dir.users = append(dir.users, &model.User{UserID: 8, FirstName: "No", LastName: "Status", Designation: "student", Username: "x"})

	svc, _ := newTestService(dir)
	_, err := svc.Mount(context.Background(), session(common.SuperAdmin))
	c.Assert(err, qt.ErrorIs, code.DirectoryInvalidRecordErr)
}

func TestMountFetchError(t *testing.T) {
	c := qt.New(t)
	dir := directoryFixture()
	dir.fetchErr = code.RPCHttpCodeErr.WithErr(&repo.RemoteError{Endpoint: "all-users", Status: 500})

	svc, _ := newTestService(dir)
	_, err := svc.Mount(context.Background(), session(common.SuperAdmin))
	c.Assert(err, qt.ErrorIs, code.DirectoryFetchErr)
	c.Assert(err.Error(), qt.Equals, "Failed to fetch users")
}

func TestViewStatePersistsAcrossRequests(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, _ := newTestService(dir)
	sess := session(common.SuperAdmin)

	_, err := svc.Mount(ctx, sess)
	c.Assert(err, qt.IsNil)

	_, err = svc.Facet(ctx, sess, &directory.FacetReq{Facet: projection.FacetLaboratory, Value: "Pathology"})
	c.Assert(err, qt.IsNil)
	res, err := svc.Sort(ctx, sess, &directory.SortReq{Column: projection.ColumnUserID})
	c.Assert(err, qt.IsNil)
	c.Assert(rowIDs(res), qt.DeepEquals, []int64{1, 2, 5})

	res, err = svc.Sort(ctx, sess, &directory.SortReq{Column: projection.ColumnUserID})
	c.Assert(err, qt.IsNil)
	c.Assert(rowIDs(res), qt.DeepEquals, []int64{5, 2, 1})

	res, err = svc.Search(ctx, sess, &directory.SearchReq{Query: "ADMIN"})
	c.Assert(err, qt.IsNil)
	c.Assert(rowIDs(res), qt.DeepEquals, []int64{2, 1})

	_, err = svc.Facet(ctx, sess, &directory.FacetReq{Clear: true})
	c.Assert(err, qt.IsNil)
	_, err = svc.Search(ctx, sess, &directory.SearchReq{})
	c.Assert(err, qt.IsNil)
	res, err = svc.Page(ctx, sess, &directory.PageReq{Page: 2})
	c.Assert(err, qt.IsNil)
	c.Assert(res.Page, qt.Equals, 2)
	c.Assert(rowIDs(res), qt.DeepEquals, []int64{2, 1})

	c.Assert(dir.fetches, qt.Equals, 1)

	_, err = svc.Sort(ctx, sess, &directory.SortReq{Column: "password"})
	c.Assert(err, qt.ErrorIs, code.UnknownSortColumnErr)
	_, err = svc.Facet(ctx, sess, &directory.FacetReq{Facet: projection.FacetStatus})
	c.Assert(err, qt.ErrorIs, code.ParamErr)
}

func TestMountRefetchesKeepingFilters(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, _ := newTestService(dir)
	sess := session(common.SuperAdmin)

	_, err := svc.Mount(ctx, sess)
	c.Assert(err, qt.IsNil)
	c.Assert(dir.fetches, qt.Equals, 1)

	_, err = svc.Facet(ctx, sess, &directory.FacetReq{Facet: projection.FacetDesignation, Value: "Student"})
	c.Assert(err, qt.IsNil)
	c.Assert(dir.fetches, qt.Equals, 1)

	dir.users = append(dir.users, record(7, "Bea", "Alonzo", "student", "Pathology", "Active"))
	res, err := svc.Mount(ctx, sess)
	c.Assert(err, qt.IsNil)
	c.Assert(rowIDs(res), qt.DeepEquals, []int64{7, 4, 6})
	c.Assert(dir.fetches, qt.Equals, 2)

	dir.users[0].Status = "Inactive"
	_, err = svc.Mount(ctx, sess)
	c.Assert(err, qt.IsNil)
	c.Assert(dir.fetches, qt.Equals, 3)
	_, err = svc.Facet(ctx, sess, &directory.FacetReq{Clear: true})
	c.Assert(err, qt.IsNil)
	users, err := svc.Visible(ctx, sess)
	c.Assert(err, qt.IsNil)
	c.Assert(users, qt.HasLen, 7)
	for _, u := range users {
		if u.UserID == 1 {
			c.Assert(u.Status, qt.Equals, "Inactive")
		}
	}
}

func TestUnmountDropsViewState(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, _ := newTestService(dir)
	sess := session(common.SuperAdmin)

	_, err := svc.Mount(ctx, sess)
	c.Assert(err, qt.IsNil)
	_, err = svc.store.Get(ctx, stateKey(sess))
	c.Assert(err, qt.IsNil)

	c.Assert(svc.Unmount(ctx, sess), qt.IsNil)
	_, err = svc.store.Get(ctx, stateKey(sess))
	c.Assert(err, qt.ErrorIs, repo.ErrStateNotFound)
	c.Assert(svc.Unmount(ctx, nil), qt.IsNil)
}

func TestUpdateStatus(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, center := newTestService(dir)
	sess := session(common.Admin)

	resp, err := svc.UpdateStatus(ctx, sess, &directory.StatusReq{UserID: 5, Status: "Active"})
	c.Assert(err, qt.IsNil)
	c.Assert(resp.Message, qt.Equals, StatusChangedMsg)
	c.Assert(*dir.patches[5].Status, qt.Equals, "Active")
	c.Assert(dir.patches[5].FilteredSuppliers, qt.IsNil)
	c.Assert(dir.fetches, qt.Equals, 2)
	c.Assert(center.sent, qt.HasLen, 1)
	c.Assert(center.sent[0].Channel, qt.Equals, notify.DirectoryModify)
	c.Assert(center.sent[0].UserID, qt.Equals, int64(99))

	for _, row := range resp.View.Rows {
		if row.UserID == 5 {
			c.Assert(row.Status, qt.Equals, "Active")
		}
	}
}

func TestUpdateStatusRejections(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *directory.StatusReq
		err  code.ErrCode
	}{{
		name: "deleted is not a selectable status",
		req:  &directory.StatusReq{UserID: 5, Status: "Deleted"},
		err:  code.UserStatusInvalidErr,
	}, {
		name: "unknown status",
		req:  &directory.StatusReq{UserID: 5, Status: "Retired"},
		err:  code.UserStatusInvalidErr,
	}, {
		name: "deleted user is terminal",
		req:  &directory.StatusReq{UserID: 3, Status: "Active"},
		err:  code.UserDeletedErr,
	}, {
		name: "admin cannot reach superadmin",
		req:  &directory.StatusReq{UserID: 1, Status: "Inactive"},
		err:  code.RecordNotFound,
	}}

	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			dir := directoryFixture()
			svc, center := newTestService(dir)
			_, err := svc.UpdateStatus(ctx, session(common.Admin), test.req)
			c.Assert(err, qt.ErrorIs, test.err)
			c.Assert(dir.patches, qt.HasLen, 0)
			c.Assert(center.sent, qt.HasLen, 0)
		})
	}
}

func TestUpdateStatusServerMessage(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	dir := directoryFixture()
	dir.updateErr = code.RPCHttpCodeErr.WithErr(&repo.RemoteError{Status: 409, Message: "user is locked"})
	svc, _ := newTestService(dir)
	_, err := svc.UpdateStatus(ctx, session(common.SuperAdmin), &directory.StatusReq{UserID: 5, Status: "Active"})
	c.Assert(err, qt.ErrorIs, code.UserUpdateErr)
	c.Assert(err.Error(), qt.Equals, "user is locked")

	dir.updateErr = code.RPCHttpErr.WithMsg("dial tcp: refused")
	_, err = svc.UpdateStatus(ctx, session(common.SuperAdmin), &directory.StatusReq{UserID: 5, Status: "Active"})
	c.Assert(err.Error(), qt.Equals, "Account update failed!")
}

func TestDelete(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, center := newTestService(dir)
	sess := session(common.SuperAdmin)

	resp, err := svc.Delete(ctx, sess, &directory.DeleteReq{UserID: 6})
	c.Assert(err, qt.IsNil)
	c.Assert(resp.Message, qt.Equals, UserDeletedMsg)
	c.Assert(*dir.patches[6].Status, qt.Equals, "Deleted")
	c.Assert(center.sent, qt.HasLen, 1)

	for _, row := range resp.View.Rows {
		if row.UserID == 6 {
			c.Assert(row.Actions.Editable, qt.IsFalse)
			c.Assert(row.Actions.Deletable, qt.IsFalse)
		}
	}

	_, err = svc.Delete(ctx, sess, &directory.DeleteReq{UserID: 6})
	c.Assert(err, qt.ErrorIs, code.UserDeletedErr)

	dir.updateErr = code.RPCHttpErr
	_, err = svc.Delete(ctx, sess, &directory.DeleteReq{UserID: 5})
	c.Assert(err, qt.ErrorIs, code.UserDeleteErr)
	c.Assert(err.Error(), qt.Equals, "Failed to delete user")
}

func TestDeletedIsTerminalAcrossSessions(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, _ := newTestService(dir)
	first := session(common.SuperAdmin)
	second := session(common.SuperAdmin)

	_, err := svc.Mount(ctx, first)
	c.Assert(err, qt.IsNil)
	_, err = svc.Mount(ctx, second)
	c.Assert(err, qt.IsNil)

	_, err = svc.Delete(ctx, second, &directory.DeleteReq{UserID: 4})
	c.Assert(err, qt.IsNil)

	_, err = svc.UpdateStatus(ctx, first, &directory.StatusReq{UserID: 4, Status: "Active"})
	c.Assert(err, qt.ErrorIs, code.UserDeletedErr)
	_, err = svc.Delete(ctx, first, &directory.DeleteReq{UserID: 4})
	c.Assert(err, qt.ErrorIs, code.UserDeletedErr)
	for _, u := range dir.users {
		if u.UserID == 4 {
			c.Assert(u.Status, qt.Equals, "Deleted")
		}
	}
}

func TestCreateUser(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := directoryFixture()
	svc, center := newTestService(dir)

	req := &directory.CreateUserReq{
		FirstName: "Bea", LastName: "Alonzo", Designation: "student", LabID: 2,
		Email: "bea@lab.test", Username: "balonzo", Password: "secret-pass",
	}
	resp, err := svc.CreateUser(ctx, session(common.Admin), req)
	c.Assert(err, qt.IsNil)
	c.Assert(resp.Message, qt.Equals, UserCreatedMsg)
	c.Assert(dir.created, qt.HasLen, 1)
	c.Assert(dir.created[0].Username, qt.Equals, "balonzo")
	c.Assert(center.sent, qt.HasLen, 1)

	req.Designation = "superadmin"
	_, err = svc.CreateUser(ctx, session(common.Admin), req)
	c.Assert(err, qt.ErrorIs, code.NoPermission)
	c.Assert(dir.created, qt.HasLen, 1)
}

func TestExport(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	svc, _ := newTestService(directoryFixture())
	sess := session(common.Admin)

	_, err := svc.Facet(ctx, sess, &directory.FacetReq{Facet: projection.FacetDesignation, Value: "student"})
	c.Assert(err, qt.IsNil)

	file, err := svc.Export(ctx, sess)
	c.Assert(err, qt.IsNil)
	c.Assert(file.Name, qt.Matches, `users-\d{8}-\d{6}\.xlsx`)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	c.Assert(err, qt.IsNil)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	c.Assert(err, qt.IsNil)
	c.Assert(rows, qt.HasLen, 3)
	c.Assert(rows[0][0], qt.Equals, "User ID")
	c.Assert(rows[1][:3], qt.DeepEquals, []string{"4", "Cruz", "Ana"})
	c.Assert(rows[2][:3], qt.DeepEquals, []string{"6", "Garcia", "Ramon"})
}
