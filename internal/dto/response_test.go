package dto

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	res "dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "业务错误",
			err:        res.NewBusinessError(res.WithErrorCode(res.DuplicateSubmission), res.WithErrorMessage("This group has already submitted their work")),
			wantStatus: http.StatusBadRequest,
			wantError:  "This group has already submitted their work",
		},
		{
			name:       "资源不存在",
			err:        res.NewBusinessError(res.WithErrorCode(res.NotFound), res.WithErrorMessage("File not found")),
			wantStatus: http.StatusNotFound,
			wantError:  "File not found",
		},
		{
			name:       "基础设施错误隐藏细节",
			err:        res.NewBusinessError(res.WithErrorCode(res.StoreUnavailable), res.WithErrorMessage("dial tcp 10.0.0.1:5432")),
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
		{
			name:       "普通错误",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponse(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

type sampleRequest struct {
	GroupNumber int    `validate:"required"`
	Task        string `validate:"oneof=task1 task2"`
}

func TestValidationErrorResponse(t *testing.T) {
	err := validator.New().Struct(sampleRequest{Task: "task9"})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationErrorResponse(c, err, map[string]string{"task": "Invalid task selection"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["error"])

	details := body["details"].([]any)
	require.Len(t, details, 2)
	assert.Equal(t, "groupNumber", details[0].(map[string]any)["field"])
	assert.Equal(t, "groupNumber is required", details[0].(map[string]any)["message"])
	assert.Equal(t, "Invalid task selection", details[1].(map[string]any)["message"])
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{query: "", wantPage: 1, wantLimit: 20},
		{query: "page=3&limit=10", wantPage: 3, wantLimit: 10},
		{query: "page=0&limit=-5", wantPage: 1, wantLimit: 20},
		{query: "page=abc&limit=1000", wantPage: 1, wantLimit: 100},
		{query: "page=100000000000000000&limit=100", wantPage: MaxPage, wantLimit: 100},
		{query: "page=99999999999999999999999", wantPage: 1, wantLimit: 20},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

		p := ParsePage(c)
		assert.Equal(t, tt.wantPage, p.Page, tt.query)
		assert.Equal(t, tt.wantLimit, p.Limit, tt.query)
		assert.GreaterOrEqual(t, p.Offset(), 0, tt.query)
		assert.LessOrEqual(t, p.Offset(), math.MaxInt32, tt.query)
	}

	assert.Equal(t, 20, Page{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 3, Page{Page: 1, Limit: 20}.Result(41).Pages)
}
