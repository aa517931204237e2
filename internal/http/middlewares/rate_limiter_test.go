package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arkodev/learnhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func TestRateLimiter(t *testing.T) {
	rl := middlewares.NewRateLimiter(3, time.Minute)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w
	}

	for i := 0; i < 3; i++ {
		if w := do("10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d got status %d", i+1, w.Code)
		}
	}

	w := do("10.0.0.1:1234")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d over the limit, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 response missing Retry-After")
	}

	// a different client gets its own window
	if w := do("10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("other client got status %d", w.Code)
	}
}
