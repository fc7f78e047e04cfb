package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"github.com/scienceol/labinv/internal/config"
	"github.com/scienceol/labinv/pkg/common/code"
)

type envelope struct {
	Code  code.ErrCode    `json:"code"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Msg string `json:"msg"`
	} `json:"error"`
}

type labServer struct {
	mu     sync.Mutex
	status map[string]string
}

func (l *labServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/all-users":
		users := []map[string]any{}
		for id, name := range map[string][2]string{
			"1": {"Root", "superadmin"},
			"2": {"Ada", "admin"},
			"5": {"Ella", "researcher"},
			"6": {"Ramon", "student"},
			"7": {"Tess", "Technician"},
		} {
			users = append(users, map[string]any{
				"userId": json.Number(id), "firstName": name[0], "lastName": "L" + id,
				"designation": name[1], "labId": 1,
				"laboratory": map[string]any{"labId": 1, "labName": "Pathology"},
				"username": strings.ToLower(name[0]), "status": l.status[id],
			})
		}
		_ = json.NewEncoder(w).Encode(users)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/update-user/"):
		body := map[string]string{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		l.status[strings.TrimPrefix(r.URL.Path, "/api/update-user/")] = body["status"]
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type client struct {
	c      *qt.C
	g      *gin.Engine
	cookie string
}

func (cl *client) do(method, path string, body any) (*httptest.ResponseRecorder, *envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		cl.c.Assert(err, qt.IsNil)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cl.cookie != "" {
		req.Header.Set("Cookie", cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.g.ServeHTTP(w, req)

	if set := w.Header().Get("Set-Cookie"); set != "" {
		cl.cookie = strings.SplitN(set, ";", 2)[0]
	}
	env := &envelope{}
	_ = json.Unmarshal(w.Body.Bytes(), env)
	return w, env
}

func newTestRouter(c *qt.C) *gin.Engine {
	gin.SetMode(gin.TestMode)

	lab := &labServer{status: map[string]string{
		"1": "Active", "2": "Active", "5": "Active", "6": "Deleted", "7": "active",
	}}
	srv := httptest.NewServer(lab)
	c.Cleanup(srv.Close)
	config.Global().LabAPI.Addr = srv.URL + "/api/"

	g := gin.New()
	release := NewRouter(context.Background(), g)
	c.Cleanup(release)
	return g
}

func TestAdminRoutesNeedSession(t *testing.T) {
	c := qt.New(t)
	g := newTestRouter(c)

	anon := &client{c: c, g: g}
	w, env := anon.do(http.MethodGet, "/api/v1/admin/users", nil)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(env.Code, qt.Equals, code.UnLogin)

	researcher := &client{c: c, g: g}
	_, env = researcher.do(http.MethodPost, "/api/v1/session", map[string]any{"userId": 5, "role": "researcher"})
	c.Assert(env.Code, qt.Equals, code.Success)
	c.Assert(string(env.Data), qt.Contains, `"redirect":"/lab/pathology"`)

	w, env = researcher.do(http.MethodGet, "/api/v1/admin/users", nil)
	c.Assert(w.Code, qt.Equals, http.StatusForbidden)
	c.Assert(env.Code, qt.Equals, code.NoPermission)
	c.Assert(string(env.Data), qt.Contains, "/lab/pathology")
}

func TestLoginChecksDirectory(t *testing.T) {
	c := qt.New(t)
	g := newTestRouter(c)

	tests := []struct {
		name   string
		userID int64
		role   string
	}{{
		name:   "unknown user",
		userID: 777,
		role:   "superadmin",
	}, {
		name:   "deleted user",
		userID: 6,
		role:   "student",
	}, {
		name:   "role above designation",
		userID: 5,
		role:   "superadmin",
	}}

	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			cl := &client{c: c, g: g}
			w, env := cl.do(http.MethodPost, "/api/v1/session", map[string]any{"userId": test.userID, "role": test.role})
			c.Assert(env.Code, qt.Equals, code.NoPermission)
			c.Assert(w.Header().Get("Set-Cookie"), qt.Equals, "")

			w, env = cl.do(http.MethodGet, "/api/v1/admin/users", nil)
			c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
			c.Assert(env.Code, qt.Equals, code.UnLogin)
		})
	}
}

func TestLogoutEndsSession(t *testing.T) {
	c := qt.New(t)
	g := newTestRouter(c)

	admin := &client{c: c, g: g}
	_, env := admin.do(http.MethodPost, "/api/v1/session", map[string]any{"userId": 1, "role": "superadmin"})
	c.Assert(env.Code, qt.Equals, code.Success)
	w, _ := admin.do(http.MethodGet, "/api/v1/admin/users", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)

	_, env = admin.do(http.MethodDelete, "/api/v1/session", nil)
	c.Assert(env.Code, qt.Equals, code.Success)

	w, env = admin.do(http.MethodGet, "/api/v1/admin/users", nil)
	c.Assert(w.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(env.Code, qt.Equals, code.UnLogin)
}

func TestAdminUserFlow(t *testing.T) {
	c := qt.New(t)
	g := newTestRouter(c)

	admin := &client{c: c, g: g}
	_, env := admin.do(http.MethodPost, "/api/v1/session", map[string]any{"userId": 2, "role": "admin"})
	c.Assert(env.Code, qt.Equals, code.Success)

	w, env := admin.do(http.MethodGet, "/api/v1/admin/users", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(env.Code, qt.Equals, code.Success)
	view := struct {
		Total int `json:"total"`
		Rows  []struct {
			UserID  int64 `json:"userId"`
			Actions struct {
				Editable bool `json:"editable"`
			} `json:"actions"`
		} `json:"rows"`
	}{}
	c.Assert(json.Unmarshal(env.Data, &view), qt.IsNil)
	c.Assert(view.Total, qt.Equals, 3)
	c.Assert(view.Rows[0].UserID, qt.Equals, int64(5))
	c.Assert(view.Rows[0].Actions.Editable, qt.IsTrue)
	c.Assert(view.Rows[1].UserID, qt.Equals, int64(6))
	c.Assert(view.Rows[1].Actions.Editable, qt.IsFalse)

	_, env = admin.do(http.MethodPut, "/api/v1/admin/users/5/status", map[string]any{"status": "Inactive"})
	c.Assert(env.Code, qt.Equals, code.Success)
	c.Assert(string(env.Data), qt.Contains, "Account status changed successful!")

	_, env = admin.do(http.MethodPut, "/api/v1/admin/users/5/status", map[string]any{"status": "Deleted"})
	c.Assert(env.Code, qt.Equals, code.ParamErr)

	_, env = admin.do(http.MethodDelete, "/api/v1/admin/users/6", nil)
	c.Assert(env.Code, qt.Equals, code.UserDeletedErr)

	_, env = admin.do(http.MethodPost, "/api/v1/admin/users/sort", map[string]any{"column": "userId"})
	c.Assert(env.Code, qt.Equals, code.Success)

	w, _ = admin.do(http.MethodGet, "/api/v1/admin/users/export", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Header().Get("Content-Type"), qt.Equals, xlsxMime)
}

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestIntakePreview(t *testing.T) {
	c := qt.New(t)
	g := newTestRouter(c)

	tech := &client{c: c, g: g}
	_, env := tech.do(http.MethodPost, "/api/v1/session", map[string]any{"userId": 7, "role": "technician"})
	c.Assert(env.Code, qt.Equals, code.Success)

	_, env = tech.do(http.MethodPost, "/api/v1/intake/preview", map[string]any{"quantity": 100, "qtyPerContainer": 30})
	c.Assert(env.Code, qt.Equals, code.Success)
	c.Assert(string(env.Data), qt.JSONEquals, map[string]any{"totalNoContainers": 4})

	_, env = tech.do(http.MethodPost, "/api/v1/intake/submit", map[string]any{"quantity": 0})
	c.Assert(env.Code, qt.Equals, code.FormValidationErr)
	c.Assert(env.Error.Msg, qt.Equals, "Date is required.")
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	g := newTestRouter(c)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Contains, `"redis":"disabled"`)
}
