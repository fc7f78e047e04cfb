package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labinv/pkg/middleware/logger"
)

const slowCommand = 100 * time.Millisecond

// slowLogHook warns about failed commands and commands slower than threshold.
type slowLogHook struct {
	threshold time.Duration
}

func (h slowLogHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			logger.Warnf(ctx, "redis dial %s err: %+v", addr, err)
		}
		return conn, err
	}
}

func (h slowLogHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.report(ctx, time.Since(start), err, rediscmd.CmdString(cmd))
		return err
	}
}

func (h slowLogHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		summary, _ := rediscmd.CmdsString(cmds)
		h.report(ctx, time.Since(start), err, summary)
		return err
	}
}

func (h slowLogHook) report(ctx context.Context, took time.Duration, err error, cmd string) {
	switch {
	case err != nil && !errors.Is(err, r.Nil):
		logger.Warnf(ctx, "redis %s err: %+v", cmd, err)
	case took > h.threshold:
		logger.Warnf(ctx, "redis slow command %s took %s", cmd, took)
	}
}
