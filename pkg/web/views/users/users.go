package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/directory"
	impl "github.com/scienceol/labinv/pkg/core/directory/directory"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handle struct {
	dService directory.Service
	wsClient *melody.Melody
}

func NewUsersHandle(ctx context.Context) *Handle {
	wsClient := melody.New()
	return NewHandle(impl.NewDirectory(ctx, wsClient), wsClient)
}

func NewHandle(dService directory.Service, wsClient *melody.Melody) *Handle {
	h := &Handle{
		dService: dService,
		wsClient: wsClient,
	}
	h.initUsersWebSocket()
	return h
}

func (h *Handle) Mount(ctx *gin.Context) {
	resp, err := h.dService.Mount(ctx, auth.GetCurrentUser(ctx))
	common.Reply(ctx, err, resp)
}

// Forget drops the directory view of a session on logout.
func (h *Handle) Forget(ctx context.Context, sess *auth.Session) error {
	return h.dService.Unmount(ctx, sess)
}

func (h *Handle) Search(ctx *gin.Context) {
	req := &directory.SearchReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Search param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.Search(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Facet(ctx *gin.Context) {
	req := &directory.FacetReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Facet param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.Facet(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Sort(ctx *gin.Context) {
	req := &directory.SortReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Sort param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.Sort(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Page(ctx *gin.Context) {
	req := &directory.PageReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		logger.Errorf(ctx, "parse Page param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.Page(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) UpdateStatus(ctx *gin.Context) {
	req := &directory.StatusReq{}
	var err error
	req.UserID, err = strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse UpdateStatus param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.UpdateStatus(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Delete(ctx *gin.Context) {
	req := &directory.DeleteReq{}
	if err := ctx.ShouldBindUri(req); err != nil {
		logger.Errorf(ctx, "parse Delete param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.Delete(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) CreateUser(ctx *gin.Context) {
	req := &directory.CreateUserReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse CreateUser param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.dService.CreateUser(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) Export(ctx *gin.Context) {
	file, err := h.dService.Export(ctx, auth.GetCurrentUser(ctx))
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	ctx.Data(http.StatusOK, xlsxContentType, file.Data)
}

// Notify upgrades to a websocket that receives directory-modify messages.
func (h *Handle) Notify(ctx *gin.Context) {
	if err := h.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		auth.USERKEY: auth.GetCurrentUser(ctx),
		"ctx":        ctx,
	}); err != nil {
		logger.Errorf(ctx, "users Notify HandleRequestWithKeys err: %+v", err)
	}
}

func (h *Handle) initUsersWebSocket() {
	h.wsClient.HandleDisconnect(func(s *melody.Session) {
		if ctx, ok := s.Get("ctx"); ok {
			logger.Infof(ctx.(context.Context), "users ws client disconnected keys: %+v", s.Keys)
		}
	})

	h.wsClient.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
			return
		}
		if ctx, ok := s.Get("ctx"); ok {
			logger.Errorf(ctx.(context.Context), "users ws error keys: %+v, err: %+v", s.Keys, err)
		}
	})

	h.wsClient.HandleConnect(func(s *melody.Session) {
		if ctx, ok := s.Get("ctx"); ok {
			if err := h.dService.OnWSConnect(ctx.(context.Context), s); err != nil {
				logger.Errorf(ctx.(context.Context), "users OnWSConnect err: %+v", err)
			}
		}
	})
}
