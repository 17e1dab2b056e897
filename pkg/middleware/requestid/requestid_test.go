package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var fromGin, fromCtx string
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(c *gin.Context) {
		fromGin = Value(c)
		fromCtx = FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(Header, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, fromGin, fromCtx
}

func TestMiddlewareKeepsInboundID(t *testing.T) {
	w, fromGin, fromCtx := serve(t, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(Header))
	assert.Equal(t, "abc-123", fromGin)
	assert.Equal(t, "abc-123", fromCtx)
}

func TestMiddlewareReplacesUnusableID(t *testing.T) {
	for _, inbound := range []string{"", "has space", strings.Repeat("x", maxLength+1)} {
		w, fromGin, _ := serve(t, inbound)
		_, err := uuid.Parse(fromGin)
		require.NoError(t, err, "inbound %q", inbound)
		assert.Equal(t, fromGin, w.Header().Get(Header))
	}
}

func TestFromContextWithoutValue(t *testing.T) {
	assert.Equal(t, "", FromContext(nil)) //nolint:staticcheck
	assert.Equal(t, "", FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
