package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/pkg/common/code"
)

type Error struct {
	Msg  string   `json:"msg"`
	Info []string `json:"info,omitempty"`
}

type Resp struct {
	Code  code.ErrCode `json:"code"`
	Data  any          `json:"data,omitempty"`
	Error *Error       `json:"error,omitempty"`
}

func ReplyOk(ctx *gin.Context, data ...any) {
	resp := &Resp{Code: code.Success}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReplyErr renders err with its code; extra msgs are attached as info lines.
func ReplyErr(ctx *gin.Context, err error, msgs ...string) {
	resp := &Resp{
		Code:  code.From(err),
		Error: &Error{Msg: errMsg(err), Info: msgs},
	}
	ctx.JSON(http.StatusOK, resp)
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func errMsg(err error) string {
	var e *code.Err
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
