package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/arkodev/learnhub/internal/config"
	learnhubhttp "github.com/arkodev/learnhub/internal/http"
	"github.com/gin-gonic/gin"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// The router is assembled with no database pool, so only routes that fail
// before touching a repository are exercised here; handler behavior against
// the stores is covered by the handler tests.
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		Env:             "dev",
		JWTSecret:       "test-secret",
		SessionTTLHours: 24,
		CookieCrossSite: true,
		AllowedOrigins:  []string{"http://localhost:5173"},
	}

	return learnhubhttp.NewRouter(testLogger(), cfg, learnhubhttp.Deps{})
}

func TestHealthEndpoints(t *testing.T) {
	r := testRouter(t)

	apitest.New().
		Handler(r).
		Get("/healthz").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "ok")).
		End()

	apitest.New().
		Handler(r).
		Get("/readyz").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "ready")).
		End()
}

func TestRegisterRejectsBadPayload(t *testing.T) {
	r := testRouter(t)

	apitest.New().
		Handler(r).
		Post("/register").
		JSON(`{"email":"not-an-email"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.success", false)).
		End()
}

func TestRegisterRejectsNonJSONBody(t *testing.T) {
	r := testRouter(t)

	apitest.New().
		Handler(r).
		Post("/register").
		Header("Content-Type", "text/plain").
		Body("name=ada").
		Expect(t).
		Status(http.StatusUnsupportedMediaType).
		Assert(jsonpath.Equal("$.success", false)).
		End()
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"profile", http.MethodGet, "/profile"},
		{"creator_courses", http.MethodGet, "/courses"},
		{"enroll", http.MethodPost, "/courses/some-id/enroll"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			apitest.New().
				Handler(r).
				Method(tt.method).
				URL(tt.path).
				Header("Content-Type", "application/json").
				Expect(t).
				Status(http.StatusUnauthorized).
				Assert(jsonpath.Equal("$.message", "User not authenticated")).
				End()
		})
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	r := testRouter(t)

	apitest.New().
		Handler(r).
		Post("/logout").
		Header("Content-Type", "application/json").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.success", true)).
		End()
}

func TestSecurityHeaders(t *testing.T) {
	r := testRouter(t)

	apitest.New().
		Handler(r).
		Get("/healthz").
		Expect(t).
		Status(http.StatusOK).
		Header("X-Content-Type-Options", "nosniff").
		Header("X-Frame-Options", "DENY").
		End()
}

func TestUnknownRoute(t *testing.T) {
	r := testRouter(t)

	apitest.New().
		Handler(r).
		Get("/nope").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}
