package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unieats/internal/common"
	"unieats/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func whoAmI(c echo.Context) error {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, actor)
}

func newProtectedEcho(roles ...models.Role) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", JWT(testSecret), RequireRole(roles...))
	g.GET("/me", whoAmI)
	return e
}

func doGet(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWT_ValidTokenPopulatesContext(t *testing.T) {
	token, err := IssueToken(testSecret, 7, models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	rec := doGet(newProtectedEcho(models.RoleCustomer), "/v1/me", token)

	require.Equal(t, http.StatusOK, rec.Code)
	var actor models.UserRef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actor))
	assert.Equal(t, int64(7), actor.ID)
	assert.Equal(t, models.RoleCustomer, actor.Role)
}

func TestJWT_Rejections(t *testing.T) {
	expired, err := IssueToken(testSecret, 7, models.RoleCustomer, -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", 7, models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"wrong signature", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(newProtectedEcho(models.RoleCustomer), "/v1/me", tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWT_UnknownRoleIsUnauthenticated(t *testing.T) {
	claims := &JWTCustomClaims{UserID: 3, Role: "COURIER"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doGet(newProtectedEcho(models.RoleCustomer), "/v1/me", token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_WrongRoleForbidden(t *testing.T) {
	token, err := IssueToken(testSecret, 1, models.RoleShop, time.Hour)
	require.NoError(t, err)

	rec := doGet(newProtectedEcho(models.RoleCustomer), "/v1/me", token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_AnyOfRoles(t *testing.T) {
	token, err := IssueToken(testSecret, 1, models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := doGet(newProtectedEcho(models.RoleShop, models.RoleAdmin), "/v1/me", token)

	assert.Equal(t, http.StatusOK, rec.Code)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func rateLimitedRequest(cache *mockCache) *httptest.ResponseRecorder {
	e := echo.New()
	handler := RateLimit(cache, "checkout", 5, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))(func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(common.WithUser(req.Context(), 7, models.RoleCustomer))
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec
}

func TestRateLimit(t *testing.T) {
	t.Run("under limit", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("IsRateLimited", mock.Anything, "checkout:7", 5, time.Minute).Return(false, nil).Once()

		rec := rateLimitedRequest(cache)

		assert.Equal(t, http.StatusCreated, rec.Code)
		cache.AssertExpectations(t)
	})

	t.Run("over limit", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("IsRateLimited", mock.Anything, "checkout:7", 5, time.Minute).Return(true, nil).Once()

		rec := rateLimitedRequest(cache)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	})

	t.Run("cache down lets request through", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("IsRateLimited", mock.Anything, "checkout:7", 5, time.Minute).Return(false, errors.New("dial tcp: refused")).Once()

		rec := rateLimitedRequest(cache)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestVersionMiddleware(t *testing.T) {
	vm := NewVersionMiddleware()
	e := echo.New()
	e.Use(vm.APIVersionResolver())
	v1 := e.Group("/v1", vm.VersionHeader("v1"))
	v1.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, c.Get("api_version").(string)) })
	e.GET("/v9/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := doGet(e, "/v1/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = doGet(e, "/v9/ping", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVersionFromPath(t *testing.T) {
	assert.Equal(t, "v1", versionFromPath("/v1/shop/orders"))
	assert.Equal(t, "v12", versionFromPath("/v12"))
	assert.Equal(t, "", versionFromPath("/health"))
	assert.Equal(t, "", versionFromPath("/vx/orders"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaboom") })
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := doGet(e, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"request failed"`)
	assert.Contains(t, buf.String(), "kaboom")

	buf.Reset()
	doGet(e, "/ok", "")
	assert.Contains(t, buf.String(), `"msg":"request handled"`)
	assert.Contains(t, buf.String(), `"path":"/ok"`)
}
