package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyMiddleware(map[string]string{"k1": "tenant1"}, nil))
	r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, TenantID(c)) })
	return r
}

func TestAPIKeyMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		key    string
		status int
		body   string
	}{
		{"known key", "k1", http.StatusOK, "tenant1"},
		{"padded key", "  k1 ", http.StatusOK, "tenant1"},
		{"unknown key", "nope", http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"no key", "", http.StatusUnauthorized, `{"error":"unauthorized"}`},
	}
	r := newRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.key != "" {
				req.Header.Set(HeaderAPIKey, tc.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestTenantID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", TenantID(c))
}
