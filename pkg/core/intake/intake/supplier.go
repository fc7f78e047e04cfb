package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/intake"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo"
	"github.com/scienceol/labinv/pkg/repo/model"
)

const (
	SupplierHiddenMsg    = "Supplier successfully hidden!"
	SupplierAlreadyMsg   = "Supplier is already in the filtered list."
	SupplierRestoredMsg  = "Hidden supplier successfully unarchived!"
	SupplierNotHiddenMsg = "Supplier is not in the filtered list."

	supplierLockTTL = 10 * time.Second
)

// editSuppliers runs edit over the hidden set of one user under that user's
// lock and writes the result back when edit reports a change.
func (i *intakeImpl) editSuppliers(ctx context.Context, sess *auth.Session, personnel int64,
	failure code.ErrCode, edit func(intake.SupplierSet) (intake.SupplierSet, bool),
) (intake.SupplierSet, bool, error) {
	if sess == nil {
		return nil, false, code.UnLogin
	}
	userID, err := owner(sess, personnel)
	if err != nil {
		return nil, false, err
	}

	unlock, err := i.locker.Lock(ctx, fmt.Sprintf("filtered-suppliers:%d", userID), supplierLockTTL)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	raw, err := i.catalog.FilteredSuppliers(ctx, userID)
	if err != nil {
		logger.Errorf(ctx, "fetch filtered suppliers of %d err: %+v", userID, err)
		return nil, false, code.SupplierQueryErr
	}

	next, changed := edit(intake.ParseSupplierSet(raw))
	if !changed {
		return next, false, nil
	}

	joined := next.String()
	if err := i.users.UpdateUser(ctx, userID, &model.UserPatch{FilteredSuppliers: &joined}); err != nil {
		logger.Errorf(ctx, "update filtered suppliers of %d err: %+v", userID, err)
		return nil, false, failure.WithMsg(repo.ServerMessage(err, failure.String()))
	}
	return next, true, nil
}

func (i *intakeImpl) HideSupplier(ctx context.Context, sess *auth.Session, req *intake.SupplierReq) (*intake.SupplierResp, error) {
	if req.SupplierID <= 0 {
		return nil, code.FormValidationErr.WithMsg("Supplier is required.")
	}
	set, changed, err := i.editSuppliers(ctx, sess, req.Personnel, code.SupplierHideErr,
		func(s intake.SupplierSet) (intake.SupplierSet, bool) {
			return s.Add(req.SupplierID)
		})
	if err != nil {
		return nil, err
	}

	msg := SupplierHiddenMsg
	if !changed {
		msg = SupplierAlreadyMsg
	}
	return &intake.SupplierResp{Message: msg, Changed: changed, Hidden: set}, nil
}

// RestoreSupplier unhides one supplier, or every supplier when none is named.
func (i *intakeImpl) RestoreSupplier(ctx context.Context, sess *auth.Session, req *intake.SupplierReq) (*intake.SupplierResp, error) {
	set, changed, err := i.editSuppliers(ctx, sess, req.Personnel, code.SupplierRestoreErr,
		func(s intake.SupplierSet) (intake.SupplierSet, bool) {
			if req.SupplierID <= 0 {
				return intake.SupplierSet{}, len(s) > 0
			}
			return s.Remove(req.SupplierID)
		})
	if err != nil {
		return nil, err
	}

	msg := SupplierRestoredMsg
	if !changed {
		msg = SupplierNotHiddenMsg
	}
	return &intake.SupplierResp{Message: msg, Changed: changed, Hidden: set}, nil
}

func (i *intakeImpl) CreateSupplier(ctx context.Context, sess *auth.Session, req *intake.CreateSupplierReq) (*model.Supplier, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	supplier, err := i.catalog.CreateSupplier(ctx, &model.NewSupplier{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
	})
	if err != nil {
		logger.Errorf(ctx, "create supplier %s err: %+v", req.CompanyName, err)
		return nil, code.SupplierCreateErr.WithMsg(repo.ServerMessage(err, code.SupplierCreateErr.String()))
	}
	return supplier, nil
}

func (i *intakeImpl) CreateCategory(ctx context.Context, sess *auth.Session, req *intake.CreateCategoryReq) (*model.Category, error) {
	if sess == nil {
		return nil, code.UnLogin
	}
	category, err := i.catalog.CreateCategory(ctx, &model.NewCategory{
		ShortName:    req.ShortName,
		Subcategory1: req.Subcategory1,
	})
	if err != nil {
		logger.Errorf(ctx, "create category %s err: %+v", req.ShortName, err)
		return nil, code.CategoryCreateErr.WithMsg(repo.ServerMessage(err, code.CategoryCreateErr.String()))
	}
	return category, nil
}
