package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vTempo/afroditis-delicacies/auth"
	"github.com/vTempo/afroditis-delicacies/models"
)

func newRouter(issuer *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "admin": IsAdmin(c)})
	}
	r.GET("/user", ValidateToken(issuer), echo)
	r.GET("/admin", RequireAdmin(issuer, "key-123"), echo)
	return r
}

func token(t *testing.T, issuer *auth.Issuer, role string) string {
	t.Helper()
	signed, err := issuer.Issue(&models.User{ID: "u-" + role, Email: role + "@example.com", Role: role})
	require.NoError(t, err)
	return signed
}

func do(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := newRouter(issuer)
	customer := token(t, issuer, models.RoleCustomer)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/user", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/user", map[string]string{"Authorization": "Bearer nope"}).Code)

	w := do(r, "/user", map[string]string{"Authorization": "Bearer " + customer})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u-customer","admin":false}`, w.Body.String())

	w = do(r, "/user", map[string]string{"Authorization": customer})
	assert.Equal(t, http.StatusOK, w.Code)

	forged := token(t, auth.NewIssuer("other", time.Hour), models.RoleCustomer)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/user", map[string]string{"Authorization": "Bearer " + forged}).Code)
}

func TestRequireAdmin(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	r := newRouter(issuer)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", nil).Code)

	w := do(r, "/admin", map[string]string{"Authorization": "Bearer " + token(t, issuer, models.RoleCustomer)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/admin", map[string]string{"Authorization": "Bearer " + token(t, issuer, models.RoleAdmin)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u-admin","admin":true}`, w.Body.String())

	w = do(r, "/admin", map[string]string{"X-API-KEY": "key-123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"api-key","admin":true}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", map[string]string{"X-API-KEY": "wrong"}).Code)
}

func TestRequireAdminWithoutConfiguredKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireAdmin(auth.NewIssuer("secret", time.Hour), ""), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", map[string]string{"X-API-KEY": ""}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", map[string]string{"X-API-KEY": "anything"}).Code)
}
