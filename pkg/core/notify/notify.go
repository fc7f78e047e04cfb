package notify

import (
	"context"

	"github.com/scienceol/labinv/pkg/common/uuid"
)

type Action string

const (
	// DirectoryModify tells list viewers the user directory changed.
	DirectoryModify Action = "directory-modify"
)

type SendMsg struct {
	Channel   Action    `json:"action"`
	UserID    int64     `json:"user_id"`
	Data      any       `json:"data"`
	UUID      uuid.UUID `json:"uuid"`
	Timestamp int64     `json:"timestamp"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}
