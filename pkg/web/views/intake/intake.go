package intake

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/intake"
	impl "github.com/scienceol/labinv/pkg/core/intake/intake"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
)

type Handle struct {
	iService intake.Service
}

func NewIntakeHandle(ctx context.Context) *Handle {
	iService, err := impl.NewIntake(ctx)
	if err != nil {
		logger.Fatalf(ctx, "init intake service err: %+v", err)
	}
	return NewHandle(iService)
}

func NewHandle(iService intake.Service) *Handle {
	return &Handle{iService: iService}
}

func (h *Handle) Close() {
	h.iService.Close()
}

func (h *Handle) Options(ctx *gin.Context) {
	req := &intake.OptionsReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse Options param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.Options(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Preview(ctx *gin.Context) {
	req := &intake.PreviewReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Preview param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.Preview(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Submit(ctx *gin.Context) {
	req := &intake.FormReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Submit param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.Submit(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) HideSupplier(ctx *gin.Context) {
	req := &intake.SupplierReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse HideSupplier param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.HideSupplier(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) RestoreSupplier(ctx *gin.Context) {
	req := &intake.SupplierReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse RestoreSupplier param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.RestoreSupplier(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) CreateSupplier(ctx *gin.Context) {
	req := &intake.CreateSupplierReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse CreateSupplier param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.CreateSupplier(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) CreateCategory(ctx *gin.Context) {
	req := &intake.CreateCategoryReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse CreateCategory param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.iService.CreateCategory(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}
