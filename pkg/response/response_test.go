package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
)

func serve(t *testing.T, fn gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", fn)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSuccessWithPage(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		meta := pagination.NewMeta(pagination.Params{Page: 2, Limit: 10}, 25)
		SuccessWithPage(c, "ok", []string{"a"}, meta)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["totalPages"])
	assert.Equal(t, float64(1), meta["prev"])
	assert.Equal(t, float64(3), meta["next"])
}

func TestErrorValidationCarriesFields(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		Error(c, apperrors.Validation(apperrors.FieldError{Msg: "不能为空", Path: "items"}))
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, false, body["success"])
	fields := body["data"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "items", fields[0].(map[string]any)["path"])
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) {
		Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.ErrInternal.Message, body["message"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
	_, hasData := body["data"]
	assert.False(t, hasData)
}
