package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vTempo/afroditis-delicacies/models"
	cartsvc "github.com/vTempo/afroditis-delicacies/services/cart"
	"github.com/vTempo/afroditis-delicacies/store/storetest"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := cartsvc.New(storetest.Open(t))

	r := gin.New()
	user := r.Group("/user/cart", func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	})
	user.GET("", GetCart(svc))
	user.GET("/summary", GetSummary(svc))
	user.POST("", AddToCart(svc))
	user.PUT("/:id", UpdateQuantity(svc))
	user.DELETE("/:id", RemoveItem(svc))
	user.DELETE("", ClearCart(svc))
	r.GET("/admin/users/:user_id/cart", GetUserCart(svc))
	return r
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

type cartBody struct {
	Items     []models.CartItem `json:"items"`
	CartCount int               `json:"cartCount"`
	CartTotal float64           `json:"cartTotal"`
}

func TestCartFlow(t *testing.T) {
	r := setup(t)

	add := `{"menuItemId":"d1","dishName":"Horiatiki","category":"Salads",
	  "quantities":[{"size":"Large","price":10,"quantity":2}]}`
	require.Equal(t, http.StatusOK, call(r, "u1", http.MethodPost, "/user/cart", add).Code)

	add = `{"menuItemId":"d1","quantities":[{"size":"Large","price":10,"quantity":1},{"size":"Small","price":7,"quantity":3}],
	  "specialInstructions":"dressing on the side"}`
	w := call(r, "u1", http.MethodPost, "/user/cart", add)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body cartBody
	w = call(r, "u1", http.MethodGet, "/user/cart", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, []models.SizeQuantity{
		{Size: models.SizeLarge, Price: 10, Quantity: 3},
		{Size: models.SizeSmall, Price: 7, Quantity: 3},
	}, body.Items[0].Quantities)
	assert.Equal(t, 6, body.CartCount)
	assert.InDelta(t, 51.0, body.CartTotal, 1e-9)
	lineID := body.Items[0].ID

	w = call(r, "u1", http.MethodPut, "/user/cart/"+lineID, `{"size":"Large","quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	var line models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))
	assert.Equal(t, []models.SizeQuantity{{Size: models.SizeSmall, Price: 7, Quantity: 3}}, line.Quantities)

	w = call(r, "u1", http.MethodPut, "/user/cart/"+lineID, `{"size":"Small","quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":true}`, w.Body.String())

	w = call(r, "u1", http.MethodGet, "/user/cart/summary", "")
	assert.JSONEq(t, `{"cartCount":0,"cartTotal":0}`, w.Body.String())
}

func TestCartErrors(t *testing.T) {
	r := setup(t)

	assert.Equal(t, http.StatusUnauthorized, call(r, "", http.MethodGet, "/user/cart", "").Code)

	w := call(r, "u1", http.MethodPost, "/user/cart", `{"menuItemId":"d1","quantities":[{"size":"Large","price":10,"quantity":0}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"select at least one item"}`, w.Body.String())

	w = call(r, "u1", http.MethodPut, "/user/cart/nope", `{"size":"Large"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, "u1", http.MethodPut, "/user/cart/nope", `{"size":"Large","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusOK, call(r, "u1", http.MethodDelete, "/user/cart/nope", "").Code)
}

func TestClearAndAdminView(t *testing.T) {
	r := setup(t)
	for _, dish := range []string{"d1", "d2"} {
		body := `{"menuItemId":"` + dish + `","quantities":[{"size":"Single","price":5,"quantity":1}]}`
		require.Equal(t, http.StatusOK, call(r, "u1", http.MethodPost, "/user/cart", body).Code)
	}

	var items []models.CartItem
	w := call(r, "", http.MethodGet, "/admin/users/u1/cart", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 2)

	require.Equal(t, http.StatusOK, call(r, "u1", http.MethodDelete, "/user/cart", "").Code)

	w = call(r, "", http.MethodGet, "/admin/users/u1/cart", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}
