package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Gin_postgres_redis_division_inventory/auth"
	"Gin_postgres_redis_division_inventory/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeVerifier struct {
	tokens map[string]*models.Profile
	err    error
}

func (f fakeVerifier) Verify(_ context.Context, token string) (*auth.Claims, *models.Profile, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	p, ok := f.tokens[token]
	if !ok {
		return nil, nil, auth.ErrInvalidToken
	}
	return &auth.Claims{SessionID: "s"}, p, nil
}

func strPtr(s string) *string { return &s }

func newRouter(v TokenVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(v)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		viewer, _ := CurrentViewer(c)
		c.JSON(http.StatusOK, H{"role": viewer.Role, "view": viewer.View, "division": viewer.Division})
	})
	r.GET("/x", handlers...)
	return r
}

func TestAuthRequired(t *testing.T) {
	sci := &models.Profile{ID: "p1", Role: models.RoleScientist, DivisionID: strPtr("C")}
	v := fakeVerifier{tokens: map[string]*models.Profile{"good": sci}}
	r := newRouter(v)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"bad bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) }, http.StatusOK},
		{"query", func(req *http.Request) { req.URL.RawQuery = "token=good" }, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
		})
	}
}

func TestAuthRequiredBackendDown(t *testing.T) {
	r := newRouter(fakeVerifier{err: errors.New("redis down")})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	v := fakeVerifier{tokens: map[string]*models.Profile{
		"admin": {ID: "a", Role: models.RoleAdmin},
		"sci":   {ID: "s", Role: models.RoleScientist, DivisionID: strPtr("A")},
	}}
	r := newRouter(v, AdminOnly())

	for token, want := range map[string]int{"admin": http.StatusOK, "sci": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", token, w.Code, want)
		}
	}
}

func TestCurrentViewerHonorsAllowedView(t *testing.T) {
	v := fakeVerifier{tokens: map[string]*models.Profile{
		"admin": {ID: "a", Role: models.RoleAdmin},
		"sci":   {ID: "s", Role: models.RoleScientist, DivisionID: strPtr("A")},
	}}
	r := newRouter(v)

	get := func(token, view string) string {
		req := httptest.NewRequest(http.MethodGet, "/x?view="+view, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}
	if body := get("admin", "scientist"); body != `{"division":"ADMIN","role":"admin","view":"scientist"}` {
		t.Errorf("admin body = %s", body)
	}
	if body := get("sci", "admin"); body != `{"division":"A","role":"scientist","view":"scientist"}` {
		t.Errorf("scientist body = %s", body)
	}
}

type fakeBootstrapRepo struct {
	admins   int64
	seeded   bool
	profiles []models.Profile
}

func (f *fakeBootstrapRepo) SeedDivisions(context.Context) error { f.seeded = true; return nil }

func (f *fakeBootstrapRepo) CountAdmins(context.Context) (int64, error) { return f.admins, nil }

func (f *fakeBootstrapRepo) CreateProfile(_ context.Context, p *models.Profile) error {
	f.profiles = append(f.profiles, *p)
	return nil
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	cfg := Config{BootstrapEmail: "root@lab.test", BootstrapName: "Root", BootstrapPassword: "s3cret"}

	repo := &fakeBootstrapRepo{}
	if err := Bootstrap(ctx, cfg, repo, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.seeded || len(repo.profiles) != 1 {
		t.Fatalf("seeded=%v profiles=%d", repo.seeded, len(repo.profiles))
	}
	p := repo.profiles[0]
	if p.Role != models.RoleAdmin || p.DivisionID != nil || p.PasswordHash == "" || p.PasswordHash == "s3cret" {
		t.Fatalf("unexpected admin %+v", p)
	}

	existing := &fakeBootstrapRepo{admins: 1}
	if err := Bootstrap(ctx, cfg, existing, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(existing.profiles) != 0 {
		t.Fatal("created a second admin")
	}
}
