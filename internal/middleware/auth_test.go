package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	"github.com/Payphone-Digital/leadgen/internal/service"
	"github.com/Payphone-Digital/leadgen/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	mw    *AuthMiddleware
	jwt   *service.JWTService
	token string
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.Seed(db, database.DefaultAdmin{}))
	t.Cleanup(func() { _ = database.CloseDB(db) })

	users := repository.NewUserRepository(db)
	jwtService := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	sessions := service.NewSessionService(repository.NewTransactor(db), users,
		repository.NewRoleRepository(db), repository.NewRefreshTokenRepository(db), jwtService)

	_, err = sessions.Register(t.Context(), &dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	pair, err := sessions.Login(t.Context(), "alice@example.com", "correct-horse")
	require.NoError(t, err)

	return authFixture{
		mw:    NewAuthMiddleware(jwtService, service.NewAuthorizationService(users)),
		jwt:   jwtService,
		token: pair.AccessToken,
	}
}

func (f authFixture) router() *gin.Engine {
	r := gin.New()
	r.GET("/private", f.mw.RequireAuth(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.String(http.StatusOK, user.Username)
	})
	r.GET("/leads", f.mw.RequireAuth(), f.mw.RequirePermission("lead", "read"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.DELETE("/leads", f.mw.RequireAuth(), f.mw.RequirePermission("lead", "delete"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/optional", f.mw.OptionalAuth(), func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			c.String(http.StatusOK, user.Username)
			return
		}
		c.String(http.StatusOK, "guest")
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieAccessToken, Value: f.token})
	w := serve(f.router(), req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_UnknownSubject(t *testing.T) {
	f := newAuthFixture(t)
	token, err := f.jwt.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(f.router(), req).Code)
}

func TestRequirePermission(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/leads", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Missing permission: lead:delete"}`, w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	f := newAuthFixture(t)
	r := f.router()

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	assert.Equal(t, "guest", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer expired-or-invalid")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	assert.Equal(t, "alice", serve(r, req).Body.String())
}
