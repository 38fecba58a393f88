package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		code     int
		status   string
		database string
	}{
		{name: "数据库正常", code: http.StatusOK, status: "OK", database: "connected"},
		{name: "数据库不可用", err: errors.New("connection refused"), code: http.StatusServiceUnavailable, status: "ERROR", database: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			RegisterRoutes(r, NewHealthHandler(fakePinger{err: tt.err}, "1.0.0", nil))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.code, w.Code)

			var s Status
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
			assert.Equal(t, tt.status, s.Status)
			assert.Equal(t, tt.database, s.Database)
			assert.Equal(t, "1.0.0", s.Version)
			assert.GreaterOrEqual(t, s.Uptime, 0.0)
		})
	}
}
