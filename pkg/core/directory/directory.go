package directory

import (
	"context"

	"github.com/olahol/melody"
	"github.com/scienceol/labinv/pkg/core/directory/projection"
	"github.com/scienceol/labinv/pkg/middleware/auth"
)

// Service is the admin user list of one session. Every call loads the
// session's view state, applies one transition and stores it back.
type Service interface {
	Mount(ctx context.Context, sess *auth.Session) (*projection.Result, error)
	Unmount(ctx context.Context, sess *auth.Session) error
	Search(ctx context.Context, sess *auth.Session, req *SearchReq) (*projection.Result, error)
	Facet(ctx context.Context, sess *auth.Session, req *FacetReq) (*projection.Result, error)
	Sort(ctx context.Context, sess *auth.Session, req *SortReq) (*projection.Result, error)
	Page(ctx context.Context, sess *auth.Session, req *PageReq) (*projection.Result, error)
	Visible(ctx context.Context, sess *auth.Session) ([]projection.User, error)

	UpdateStatus(ctx context.Context, sess *auth.Session, req *StatusReq) (*MutationResp, error)
	Delete(ctx context.Context, sess *auth.Session, req *DeleteReq) (*MutationResp, error)
	CreateUser(ctx context.Context, sess *auth.Session, req *CreateUserReq) (*MutationResp, error)

	Export(ctx context.Context, sess *auth.Session) (*ExportFile, error)

	OnWSConnect(ctx context.Context, s *melody.Session) error
	OnDirectoryNotify(ctx context.Context, msg string) error
}
