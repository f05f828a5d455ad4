package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func serve(t *testing.T, allowed []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Use(New(allowed))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, err := http.NewRequest(method, "/", nil)
	require.NoError(t, err)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAllowsListedOrigin(t *testing.T) {
	resp := serve(t, []string{"https://app.firm.example"}, http.MethodGet, "https://app.firm.example")
	assert.Equal(t, "https://app.firm.example", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestIgnoresUnlistedOrigin(t *testing.T) {
	resp := serve(t, []string{"https://app.firm.example"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestExposesDownloadHeaders(t *testing.T) {
	resp := serve(t, nil, http.MethodGet, "https://app.firm.example")
	exposed := resp.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Content-Disposition")
	assert.Contains(t, exposed, "X-Request-ID")
}

func TestPreflightShortCircuits(t *testing.T) {
	resp := serve(t, nil, http.MethodOptions, "https://app.firm.example")
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
