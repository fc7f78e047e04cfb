package intake

import (
	"context"
	"strings"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	"github.com/scienceol/labinv/internal/config"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/intake"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/repo/labapi"
	"github.com/scienceol/labinv/pkg/repo/model"
	"github.com/scienceol/labinv/pkg/repo/viewstate"
	"github.com/scienceol/labinv/pkg/utils"
)

const SubmitOkMsg = "Material and inventory log added successfully!"

type intakeImpl struct {
	users     repo.Directory
	inventory repo.Inventory
	catalog   repo.Catalog
	locker    repo.Locker
	pool      *ants.Pool
	inFlight  *haxmap.Map[string, struct{}]
	keyword   string
}

func NewIntake(_ context.Context) (intake.Service, error) {
	api := labapi.New()
	conf := config.Global().Intake
	return NewService(api, api, api, viewstate.NewLocker(), conf.PoolSize, conf.CategoryKeyword)
}

func NewService(users repo.Directory, inventory repo.Inventory, catalog repo.Catalog,
	locker repo.Locker, poolSize int, keyword string,
) (*intakeImpl, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &intakeImpl{
		users:     users,
		inventory: inventory,
		catalog:   catalog,
		locker:    locker,
		pool:      pool,
		inFlight:  haxmap.New[string, struct{}](),
		keyword:   keyword,
	}, nil
}

func (i *intakeImpl) Close() {
	i.pool.Release()
}

// owner is the user whose suppliers the session works on.
func owner(sess *auth.Session, personnel int64) (int64, error) {
	if personnel == 0 || personnel == sess.UserID {
		return sess.UserID, nil
	}
	if !sess.IsAdministrator() {
		return 0, code.NoPermission.WithMsgf("%s cannot act for user %d", sess.Role, personnel)
	}
	return personnel, nil
}

func (i *intakeImpl) Options(ctx context.Context, sess *auth.Session, req *intake.OptionsReq) (*intake.OptionsResp, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	userID, err := owner(sess, req.Personnel)
	if err != nil {
		return nil, err
	}

	resp := &intake.OptionsResp{Laboratories: intake.Laboratories}
	tasks := []func() error{
		func() (err error) {
			resp.Personnel, err = i.personnel(ctx, sess)
			return err
		},
		func() error {
			suppliers, err := i.catalog.UnfilteredSuppliers(ctx, userID)
			if err != nil {
				logger.Errorf(ctx, "fetch suppliers for %d err: %+v", userID, err)
				return code.SupplierQueryErr
			}
			resp.Suppliers = suppliers
			return nil
		},
		func() error {
			categories, err := i.catalog.Categories(ctx)
			if err != nil {
				logger.Errorf(ctx, "fetch categories err: %+v", err)
				return code.CategoryQueryErr
			}
			resp.Categories = utils.FilterSlice(categories, func(c *model.Category) (*model.Category, bool) {
				return c, strings.Contains(c.ShortName, i.keyword)
			})
			return nil
		},
	}

	if err := i.runAll(ctx, tasks); err != nil {
		return nil, err
	}
	return resp, nil
}

// runAll runs tasks on the pool and returns the first error in task order.
func (i *intakeImpl) runAll(ctx context.Context, tasks []func() error) error {
	errs := make([]error, len(tasks))
	wg := sync.WaitGroup{}
	for idx, task := range tasks {
		wg.Add(1)
		if err := i.pool.Submit(func() {
			defer wg.Done()
			errs[idx] = task()
		}); err != nil {
			wg.Done()
			logger.Errorf(ctx, "submit intake task err: %+v", err)
			errs[idx] = err
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// personnel narrows the directory to who may be recorded on an intake.
func (i *intakeImpl) personnel(ctx context.Context, sess *auth.Session) ([]intake.Personnel, error) {
	users, err := i.users.AllUsers(ctx)
	if err != nil {
		logger.Errorf(ctx, "fetch personnel err: %+v", err)
		return nil, code.PersonnelQueryErr
	}

	out := make([]intake.Personnel, 0, len(users))
	for _, u := range users {
		active := common.Status(u.Status).IsActive()
		var keep bool
		switch sess.Role {
		case common.Admin:
			keep = active && !common.IsAdministratorDesignation(u.Designation)
		case common.SuperAdmin:
			keep = active
		default:
			keep = u.UserID == sess.UserID
		}
		if keep {
			out = append(out, intake.Personnel{UserID: u.UserID, FullName: fullName(u)})
		}
	}
	return out, nil
}

func fullName(u *model.User) string {
	if middle := utils.SafeValue(u.MiddleName); middle != "" {
		return u.FirstName + " " + middle + " " + u.LastName
	}
	return u.FirstName + " " + u.LastName
}

func (i *intakeImpl) Preview(_ context.Context, req *intake.PreviewReq) (*intake.PreviewResp, error) {
	n, err := Containers(req.Quantity, req.QtyPerContainer)
	if err != nil {
		return nil, err
	}
	return &intake.PreviewResp{TotalNoContainers: n}, nil
}

// Submit creates the material, then its first inventory log. A failed log
// leaves the material in place; the error names it.
func (i *intakeImpl) Submit(ctx context.Context, sess *auth.Session, req *intake.FormReq) (*intake.SubmitResp, error) {
	if sess == nil {
		return nil, code.UnLogin
	}

	key := sess.ViewKey.String()
	if _, loaded := i.inFlight.GetOrSet(key, struct{}{}); loaded {
		return nil, code.SubmitInFlightErr
	}
	defer i.inFlight.Del(key)

	payload, err := BuildPayload(req)
	if err != nil {
		return nil, err
	}
	if _, err := owner(sess, req.Personnel); err != nil {
		return nil, err
	}

	materialID, err := i.inventory.CreateMaterial(ctx, payload.Material)
	if err != nil {
		logger.Errorf(ctx, "create material %s err: %+v", req.ItemCode, err)
		return nil, code.MaterialCreateErr.WithMsg(repo.ServerMessage(err, code.MaterialCreateErr.String()))
	}

	payload.Log.MaterialID = materialID
	if err := i.inventory.CreateInventoryLog(ctx, payload.Log); err != nil {
		logger.Errorf(ctx, "create inventory log for material %d err: %+v", materialID, err)
		return nil, code.InventoryLogOrphanErr.WithMsgf("Failed to create inventory log for material %d", materialID)
	}

	return &intake.SubmitResp{
		Message:           SubmitOkMsg,
		MaterialID:        materialID,
		TotalNoContainers: payload.Containers,
		Redirect:          LabPath(req.LabID),
	}, nil
}
