package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/internal/config"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/scienceol/labinv/pkg/repo/labapi"
	"github.com/scienceol/labinv/pkg/web/views/health"
	intakeView "github.com/scienceol/labinv/pkg/web/views/intake"
	"github.com/scienceol/labinv/pkg/web/views/session"
	usersView "github.com/scienceol/labinv/pkg/web/views/users"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter installs every route and returns a func releasing the handlers'
// resources.
func NewRouter(ctx context.Context, g *gin.Engine) func() {
	installMiddleware(g)
	return installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
	auth.InstallSession(g)
	registerValidators()
}

func installURL(ctx context.Context, g *gin.Engine) func() {
	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready(labapi.New()))

	uHandle := usersView.NewUsersHandle(ctx)
	iHandle := intakeView.NewIntakeHandle(ctx)
	sHandle := session.NewHandle(labapi.New(), uHandle.Forget)

	v1 := api.Group("/v1")
	{
		v1.POST("/session", sHandle.Login)
		v1.DELETE("/session", sHandle.Logout)
	}

	{
		wsRouter := v1.Group("/ws", auth.Auth(), auth.RequireAdmin())
		wsRouter.GET("/admin/users", uHandle.Notify)
	}

	{
		usersRouter := v1.Group("/admin/users", auth.Auth(), auth.RequireAdmin())
		usersRouter.GET("", uHandle.Mount)
		usersRouter.POST("", uHandle.CreateUser)
		usersRouter.POST("/search", uHandle.Search)
		usersRouter.POST("/facets", uHandle.Facet)
		usersRouter.POST("/sort", uHandle.Sort)
		usersRouter.GET("/page/:page", uHandle.Page)
		usersRouter.GET("/export", uHandle.Export)
		usersRouter.PUT("/:id/status", uHandle.UpdateStatus)
		usersRouter.DELETE("/:id", uHandle.Delete)
	}

	{
		intakeRouter := v1.Group("/intake", auth.Auth())
		intakeRouter.GET("/options", iHandle.Options)
		intakeRouter.POST("/preview", iHandle.Preview)
		intakeRouter.POST("/submit", iHandle.Submit)
		intakeRouter.POST("/suppliers/hide", iHandle.HideSupplier)
		intakeRouter.POST("/suppliers/restore", iHandle.RestoreSupplier)
		intakeRouter.POST("/suppliers", iHandle.CreateSupplier)
		intakeRouter.POST("/categories", iHandle.CreateCategory)
	}

	return iHandle.Close
}
