package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaja/seating/middlewares"
	"github.com/mesaja/seating/utils"
)

var secret = []byte("test-secret")

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.Silence()
	r := gin.New()
	group := r.Group("/", middlewares.StaffAuth(secret))
	if len(roles) > 0 {
		group.Use(middlewares.RequireRole(roles...))
	}
	group.GET("/private", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("staff"))
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStaffAuth(t *testing.T) {
	r := protectedRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "garbage").Code)

	other, err := utils.GenerateToken([]byte("other"), "eve", middlewares.RoleStaff, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", other).Code)

	token, err := utils.GenerateToken(secret, "ana", middlewares.RoleStaff, time.Hour)
	require.NoError(t, err)
	w := get(r, "/private", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(middlewares.RoleManager)

	staff, err := utils.GenerateToken(secret, "ana", middlewares.RoleStaff, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, "/private", staff).Code)

	manager, err := utils.GenerateToken(secret, "bia", middlewares.RoleManager, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/private", manager).Code)
}

func TestWebSocketAuthReadsQueryToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", middlewares.WebSocketAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("role"))
	})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws", "").Code)

	token, err := utils.GenerateToken(secret, "ana", middlewares.RoleStaff, time.Hour)
	require.NoError(t, err)
	w := get(r, "/ws?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, middlewares.RoleStaff, w.Body.String())
}

func TestRateLimiterPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := middlewares.NewRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/queue", limiter.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/queue", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, post("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, post("10.0.0.2"))
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares.SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "/ping", "")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
