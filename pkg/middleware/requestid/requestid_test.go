package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	router := gin.New()
	router.Use(Middleware())

	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	if header != "" {
		req.Header.Set("X-Request-ID", header)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp, seen
}

func TestMiddlewareKeepsWellFormedInboundID(t *testing.T) {
	resp, seen := serve(t, "gateway-abc123")
	assert.Equal(t, "gateway-abc123", seen)
	assert.Equal(t, "gateway-abc123", resp.Header().Get("X-Request-ID"))
}

func TestMiddlewareReplacesSuspectInboundID(t *testing.T) {
	resp, seen := serve(t, "abc\ndef")
	assert.NotEqual(t, "abc\ndef", seen)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header().Get("X-Request-ID"))
}

func TestMiddlewareReplacesOversizedInboundID(t *testing.T) {
	long := strings.Repeat("a", maxInboundLen+1)
	_, seen := serve(t, long)
	assert.NotEqual(t, long, seen)
	assert.NotEmpty(t, seen)
}

func TestMiddlewareGeneratesIDWhenAbsent(t *testing.T) {
	resp, seen := serve(t, "")
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header().Get("X-Request-ID"))
}
