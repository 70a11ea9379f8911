package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func protectedRouter(j JWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Middleware(j), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CallerID(c)})
	})
	return r
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	token, _, err := j.Sign(Claims{UserID: 7})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter(j).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}

func TestMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	other := JWT{Secret: []byte("other-secret"), TokenTTL: time.Hour}
	foreign, _, err := other.Sign(Claims{UserID: 7})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + foreign},
	}
	router := protectedRouter(j)
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", tc.name, w.Code)
		}
	}
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(token string) *gin.Engine {
		r := gin.New()
		r.POST("/admin", AdminMiddleware(token), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	call := func(r *gin.Engine, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	r := newRouter("ops-token")
	if code := call(r, "Bearer ops-token"); code != http.StatusOK {
		t.Fatalf("valid admin token: status = %d, want 200", code)
	}
	if code := call(r, "Bearer wrong"); code != http.StatusUnauthorized {
		t.Fatalf("wrong admin token: status = %d, want 401", code)
	}
	if code := call(r, ""); code != http.StatusUnauthorized {
		t.Fatalf("missing admin token: status = %d, want 401", code)
	}

	// An empty configured token disables the endpoints outright.
	disabled := newRouter("")
	if code := call(disabled, "Bearer anything"); code != http.StatusUnauthorized {
		t.Fatalf("disabled admin: status = %d, want 401", code)
	}
}

func TestCallerIDWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CallerID(c); got != 0 {
		t.Fatalf("CallerID = %d, want 0", got)
	}
}
