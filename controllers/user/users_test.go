package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fbauth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vTempo/afroditis-delicacies/geocode"
	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/notify"
	"github.com/vTempo/afroditis-delicacies/services/account"
	"github.com/vTempo/afroditis-delicacies/store/storetest"
)

type stubUsers struct{ updates int }

func (s *stubUsers) CreateUser(context.Context, *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	return &fbauth.UserRecord{}, nil
}

func (s *stubUsers) UpdateUser(_ context.Context, uid string, _ *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	s.updates++
	return &fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: uid}}, nil
}

type silent struct{}

func (silent) Notify(context.Context, notify.Message) error { return nil }

func setup(t *testing.T, geo *geocode.Client) (*gin.Engine, *stubUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := storetest.Open(t)
	users := &stubUsers{}
	svc := account.New(db, users, account.WithNotifier(silent{}))
	require.NoError(t, db.Create(&models.User{
		ID:            "u1",
		Email:         "eleni@example.com",
		FirstName:     "Eleni",
		Role:          models.RoleCustomer,
		AccountStatus: models.AccountActive,
		Preferences:   models.DefaultPreferences(),
	}).Error)

	r := gin.New()
	g := r.Group("/user", func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	})
	g.GET("/", GetUser(svc))
	g.PUT("/", UpdateUser(svc))
	g.PUT("/password", ChangePassword(svc))
	g.PUT("/email", ChangeEmail(svc))
	g.GET("/orders", GetOrders(svc))
	g.GET("/address/suggest", SuggestAddress(geo))
	r.GET("/auth/email-exists", EmailExists(svc))
	r.GET("/admin/users", GetAllUsers(svc))
	return r, users
}

func call(r http.Handler, user, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfile(t *testing.T) {
	r, _ := setup(t, geocode.New(""))

	assert.Equal(t, http.StatusUnauthorized, call(r, "", http.MethodGet, "/user/", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, "ghost", http.MethodGet, "/user/", "").Code)

	w := call(r, "u1", http.MethodPut, "/user/", `{"lastName":"Papadopoulou","phoneNumber":"(555) 123-4567"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.User
	w = call(r, "u1", http.MethodGet, "/user/", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Eleni", got.FirstName)
	assert.Equal(t, "Papadopoulou", got.LastName)

	w = call(r, "u1", http.MethodPut, "/user/", `{"phoneNumber":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Phone number must be 10 digits (e.g., (555) 123-4567)"}`, w.Body.String())
}

func TestPasswordAndEmail(t *testing.T) {
	r, users := setup(t, geocode.New(""))

	w := call(r, "u1", http.MethodPut, "/user/password", `{"password":"weak"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at least 6 characters long"}`, w.Body.String())
	assert.Zero(t, users.updates)

	require.Equal(t, http.StatusOK, call(r, "u1", http.MethodPut, "/user/password", `{"password":"Strong1!"}`).Code)
	assert.Equal(t, 1, users.updates)

	assert.Equal(t, http.StatusBadRequest, call(r, "u1", http.MethodPut, "/user/email", `{}`).Code)
	require.Equal(t, http.StatusOK, call(r, "u1", http.MethodPut, "/user/email", `{"email":"new@example.com"}`).Code)

	w = call(r, "", http.MethodGet, "/auth/email-exists?email=NEW@example.com", "")
	assert.JSONEq(t, `{"exists":true}`, w.Body.String())
	w = call(r, "", http.MethodGet, "/auth/email-exists?email=eleni@example.com", "")
	assert.JSONEq(t, `{"exists":false}`, w.Body.String())
	assert.Equal(t, http.StatusBadRequest, call(r, "", http.MethodGet, "/auth/email-exists", "").Code)
}

func TestOrdersAndUsers(t *testing.T) {
	r, _ := setup(t, geocode.New(""))

	w := call(r, "u1", http.MethodGet, "/user/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	var users []models.User
	w = call(r, "", http.MethodGet, "/admin/users", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestSuggestAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features":[{"id":"a","place_name":"40 Athens St, Tarpon Springs, FL 34689, United States"}]}`))
	}))
	defer srv.Close()

	r, _ := setup(t, geocode.New("tok", geocode.WithBaseURL(srv.URL)))
	w := call(r, "u1", http.MethodGet, "/user/address/suggest?q=40+Athens", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []geocode.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "40 Athens St", got[0].MainText)
	assert.Equal(t, "FL", got[0].Address.State)

	r, _ = setup(t, geocode.New(""))
	assert.Equal(t, http.StatusServiceUnavailable, call(r, "u1", http.MethodGet, "/user/address/suggest?q=40+Athens", "").Code)
}
