package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), BodyLimit(limit))
	r.POST("/export/import", func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "read limit %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(raw))
	})
	r.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int64
		body     string
		length   int64 // -1 sends the body without a Content-Length
		wantCode int
		wantBody string
	}{
		{"within limit", 1024, `{"projects":[]}`, 15, http.StatusOK, "15"},
		{"exactly at limit", 4, "1234", 4, http.StatusOK, "4"},
		{"declared length over limit", 100, strings.Repeat("x", 200), 200, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE"},
		{"streamed body over limit", 50, strings.Repeat("x", 100), -1, http.StatusRequestEntityTooLarge, "read limit 50"},
		{"disabled", 0, strings.Repeat("x", 100), 100, http.StatusOK, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/export/import", strings.NewReader(tt.body))
			req.ContentLength = tt.length
			w := httptest.NewRecorder()
			newImportRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBodyLimit_RejectionCarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/export/import", strings.NewReader(strings.Repeat("x", 20)))
	req.Header.Set(RequestIDHeader, "req-413")
	w := httptest.NewRecorder()
	newImportRouter(10).ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "req-413")
}

func TestBodyLimit_IgnoresBodylessRequests(t *testing.T) {
	w := httptest.NewRecorder()
	newImportRouter(1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
