package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vTempo/afroditis-delicacies/models"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.NotFound("dish", "d1"), http.StatusNotFound},
		{models.Invalid("name", "required"), http.StatusBadRequest},
		{&models.PermissionError{Action: "edit the menu"}, http.StatusForbidden},
		{models.StoreError("get menu", errors.New("timeout")), http.StatusBadGateway},
		{&models.DeserializationError{Kind: "dish", ID: "d1", Reason: "bad"}, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", models.NotFound("cart item", "c1")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestErrorBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := func(err error) (int, string) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, err)
		var out map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out["error"]
	}

	code, msg := body(models.Invalid("price", "price must be a positive number"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "price must be a positive number", msg)

	code, msg = body(models.StoreError("get menu", errors.New("dial tcp 10.0.0.1: refused")))
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Bad Gateway", msg)

	code, msg = body(models.NotFound("category", "Soups"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, `category "Soups" not found`, msg)
}
