package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	l, logs := observed()
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "req-7"); c.Next() })
	r.Use(GinMiddleware(l))

	var ctxRequestID string
	r.GET("/api/v1/projects/:id", func(c *gin.Context) {
		ctxRequestID = RequestID(c.Request.Context())
		L(c.Request.Context()).Info("handler")
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1?verbose=1", nil))

	assert.Equal(t, "req-7", ctxRequestID)
	require.Equal(t, 2, logs.Len())

	handlerEntry := logs.All()[0]
	assert.Equal(t, "handler", handlerEntry.Message)
	assert.Equal(t, "req-7", handlerEntry.ContextMap()["request_id"])

	reqEntry := logs.All()[1]
	assert.Equal(t, zapcore.WarnLevel, reqEntry.Level)
	fields := reqEntry.ContextMap()
	assert.EqualValues(t, 404, fields["status"])
	assert.Equal(t, "/api/v1/projects/:id", fields["route"])
	assert.Equal(t, "verbose=1", fields["query"])
}

func TestGinMiddleware_ServerErrorLevel(t *testing.T) {
	l, logs := observed()
	r := gin.New()
	r.Use(GinMiddleware(l))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestRecovery(t *testing.T) {
	l, logs := observed()
	r := gin.New()
	r.Use(Recovery(l))
	r.GET("/panic", func(c *gin.Context) { panic("ledger corrupted") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))

	l, _ := observed()
	c.Set("logger", l)
	assert.Same(t, l, GetGinLogger(c))
}
