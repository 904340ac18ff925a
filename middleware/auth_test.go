package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/testutil"
	"github.com/hk-arcade-map/api-go/types"
	"github.com/hk-arcade-map/api-go/utils"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.Role)
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateAccessToken(testSecret, 7, role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad format", "Token abc def", http.StatusUnauthorized},
		{"invalid token", "Bearer abc", http.StatusUnauthorized},
		{"valid token", token(t, "user"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.header); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(testSecret))

	if w := do(r, ""); w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("no header: %d %q", w.Code, w.Body.String())
	}
	if w := do(r, "Bearer broken"); w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Errorf("broken token: %d %q", w.Code, w.Body.String())
	}
	if w := do(r, token(t, "admin")); w.Body.String() != "admin" {
		t.Errorf("valid token: body %q", w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	db := testutil.NewSQLite(t)
	player := testutil.CreateUser(t, db, "player", models.RoleUser)
	mod := testutil.CreateUser(t, db, "mod", models.RoleModerator)
	r := newRouter(AuthMiddleware(testSecret), RequireRole(db, models.RoleModerator, models.RoleAdmin))

	bearer := func(user *models.User, role string) string {
		tok, err := utils.GenerateAccessToken(testSecret, user.ID, role, time.Hour)
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		return "Bearer " + tok
	}

	if w := do(r, bearer(player, models.RoleUser)); w.Code != http.StatusForbidden {
		t.Errorf("user: status = %d, want 403", w.Code)
	}
	if w := do(r, bearer(mod, models.RoleModerator)); w.Code != http.StatusOK || w.Body.String() != models.RoleModerator {
		t.Errorf("moderator: status = %d %q, want 200", w.Code, w.Body.String())
	}
	// a forged or stale role claim does not grant access
	if w := do(r, bearer(player, models.RoleAdmin)); w.Code != http.StatusForbidden {
		t.Errorf("user with admin claim: status = %d, want 403", w.Code)
	}

	// demotion applies to tokens that are still valid
	modToken := bearer(mod, models.RoleModerator)
	db.Model(&models.User{}).Where("id = ?", mod.ID).Update("role", models.RoleUser)
	if w := do(r, modToken); w.Code != http.StatusForbidden {
		t.Errorf("demoted moderator: status = %d, want 403", w.Code)
	}

	db.Model(&models.User{}).Where("id = ?", mod.ID).Updates(map[string]interface{}{"role": models.RoleModerator, "account_status": "suspended"})
	if w := do(r, modToken); w.Code != http.StatusForbidden {
		t.Errorf("suspended moderator: status = %d, want 403", w.Code)
	}

	missing := &models.User{ID: 9999}
	if w := do(r, bearer(missing, models.RoleAdmin)); w.Code != http.StatusUnauthorized {
		t.Errorf("deleted user: status = %d, want 401", w.Code)
	}
}

func TestRegisterValidators_HKRegion(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators: %v", err)
	}

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		var req types.ListVenuesRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	for query, want := range map[string]int{
		"/":                http.StatusOK,
		"/?region=kowloon": http.StatusOK,
		"/?region=macau":   http.StatusBadRequest,
		"/?pageSize=1000":  http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, query, nil))
		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", query, w.Code, want)
		}
	}
}
