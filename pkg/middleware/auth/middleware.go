package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/labinv/internal/config"
	"github.com/scienceol/labinv/pkg/common"
	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/common/uuid"
)

// InstallSession mounts the signed cookie store holding the session fields.
func InstallSession(g *gin.Engine) {
	conf := config.Global().Session
	store := cookie.NewStore([]byte(conf.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   conf.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	g.Use(sessions.Sessions(conf.Name, store))
}

// Login stores sess in the cookie, minting a view key when it has none.
func Login(ctx *gin.Context, sess *Session) error {
	if sess.ViewKey.IsNil() {
		sess.ViewKey = uuid.NewV4()
	}
	s := sessions.Default(ctx)
	s.Set(sessionUserID, sess.UserID)
	s.Set(sessionRole, string(sess.Role))
	s.Set(sessionViewKey, sess.ViewKey.String())
	return s.Save()
}

func Logout(ctx *gin.Context) error {
	s := sessions.Default(ctx)
	s.Clear()
	return s.Save()
}

// Current reads the cookie session outside the Auth group, nil when absent.
func Current(ctx *gin.Context) *Session {
	return load(ctx)
}

func load(ctx *gin.Context) *Session {
	s := sessions.Default(ctx)
	userID, ok := s.Get(sessionUserID).(int64)
	if !ok || userID <= 0 {
		return nil
	}
	role, _ := s.Get(sessionRole).(string)
	viewKey, _ := s.Get(sessionViewKey).(string)
	key, err := uuid.FromString(viewKey)
	if err != nil {
		return nil
	}
	return &Session{UserID: userID, Role: common.Role(role), ViewKey: key}
}

// Auth rejects requests without a session and exposes it via GetCurrentUser.
func Auth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sess := load(ctx)
		if sess == nil {
			ctx.JSON(http.StatusUnauthorized, &common.Resp{
				Code:  code.UnLogin,
				Error: &common.Error{Msg: code.UnLogin.String()},
			})
			ctx.Abort()
			return
		}
		ctx.Set(USERKEY, sess)
		ctx.Next()
	}
}

// RequireAdmin lets only admin and superadmin roles through; everyone else is
// pointed at the lab landing page.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if sess := GetCurrentUser(ctx); sess.IsAdministrator() {
			ctx.Next()
			return
		}
		ctx.JSON(http.StatusForbidden, &common.Resp{
			Code:  code.NoPermission,
			Data:  gin.H{"redirect": LandingPath},
			Error: &common.Error{Msg: code.NoPermission.String()},
		})
		ctx.Abort()
	}
}
