package intake

import (
	"context"

	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/repo/model"
)

type Service interface {
	Options(ctx context.Context, sess *auth.Session, req *OptionsReq) (*OptionsResp, error)
	Preview(ctx context.Context, req *PreviewReq) (*PreviewResp, error)
	Submit(ctx context.Context, sess *auth.Session, req *FormReq) (*SubmitResp, error)

	HideSupplier(ctx context.Context, sess *auth.Session, req *SupplierReq) (*SupplierResp, error)
	RestoreSupplier(ctx context.Context, sess *auth.Session, req *SupplierReq) (*SupplierResp, error)
	CreateSupplier(ctx context.Context, sess *auth.Session, req *CreateSupplierReq) (*model.Supplier, error)
	CreateCategory(ctx context.Context, sess *auth.Session, req *CreateCategoryReq) (*model.Category, error)

	Close()
}
