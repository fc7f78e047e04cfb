package events

import (
	"context"
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/notify"
)

func TestLocalBroadcast(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	center := NewLocal()

	got := make(chan *notify.SendMsg, 1)
	err := center.Registry(ctx, notify.DirectoryModify, func(_ context.Context, msg string) error {
		m := &notify.SendMsg{}
		if err := json.Unmarshal([]byte(msg), m); err != nil {
			return err
		}
		got <- m
		return nil
	})
	c.Assert(err, qt.IsNil)

	err = center.Registry(ctx, notify.DirectoryModify, func(context.Context, string) error { return nil })
	c.Assert(err, qt.ErrorIs, code.NotifyActionAlreadyRegistryErr)

	c.Assert(center.Broadcast(ctx, &notify.SendMsg{Channel: notify.DirectoryModify, UserID: 4}), qt.IsNil)
	c.Assert(center.Close(ctx), qt.IsNil)

	m := <-got
	c.Assert(m.Channel, qt.Equals, notify.DirectoryModify)
	c.Assert(m.UserID, qt.Equals, int64(4))
	c.Assert(m.UUID.IsNil(), qt.IsFalse)
	c.Assert(m.Timestamp > 0, qt.IsTrue)
}

func TestLocalBroadcastWithoutHandler(t *testing.T) {
	c := qt.New(t)
	center := NewLocal()
	c.Assert(center.Broadcast(context.Background(), &notify.SendMsg{Channel: notify.Action("nobody-listens")}), qt.IsNil)
}
