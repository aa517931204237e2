package middlewares_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arkodev/learnhub/internal/auth"
	"github.com/arkodev/learnhub/internal/domain/user"
	"github.com/arkodev/learnhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers struct {
	getFn func(ctx context.Context, id string) (user.User, error)
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func protectedRouter(m *middlewares.AuthMiddleware) *gin.Engine {
	r := gin.New()

	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		u, ok := middlewares.UserFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "userId": u.ID})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)
	expiredManager := auth.NewManager("test-secret", -time.Minute)

	validToken, err := manager.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expiredToken, err := expiredManager.Issue("user-1")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	liveUser := user.User{ID: "user-1", Name: "Ada", Email: "ada@example.com", Role: user.RoleStudent}

	tests := []struct {
		name           string
		cookie         *http.Cookie
		usersSetUp     func(*fakeUsers)
		wantStatusCode int
	}{
		{
			name:           "missing_cookie",
			cookie:         nil,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "garbage_token",
			cookie:         &http.Cookie{Name: auth.SessionCookieName, Value: "nonsense"},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "expired_token",
			cookie:         &http.Cookie{Name: auth.SessionCookieName, Value: expiredToken},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "user_deleted_after_issuance",
			cookie: &http.Cookie{Name: auth.SessionCookieName, Value: validToken},
			usersSetUp: func(f *fakeUsers) {
				f.getFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "user_gone_wrapped_cause",
			cookie: &http.Cookie{Name: auth.SessionCookieName, Value: validToken},
			usersSetUp: func(f *fakeUsers) {
				f.getFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{}, fmt.Errorf("load user %s: %w", id, user.ErrNotFound)
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "store_error",
			cookie: &http.Cookie{Name: auth.SessionCookieName, Value: validToken},
			usersSetUp: func(f *fakeUsers) {
				f.getFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{}, errors.New("db down")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:   "success",
			cookie: &http.Cookie{Name: auth.SessionCookieName, Value: validToken},
			usersSetUp: func(f *fakeUsers) {
				f.getFn = func(ctx context.Context, id string) (user.User, error) {
					if id != "user-1" {
						t.Fatalf("resolved unexpected id %q", id)
					}
					return liveUser, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{}

			if tt.usersSetUp != nil {
				tt.usersSetUp(users)
			}

			m := middlewares.NewAuthMiddleware(manager, users)
			r := protectedRouter(m)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)

	token, err := manager.Issue("user-2")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name           string
		role           string
		wantStatusCode int
	}{
		{"instructor_allowed", user.RoleInstructor, http.StatusOK},
		{"student_forbidden", user.RoleStudent, http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{
				getFn: func(ctx context.Context, id string) (user.User, error) {
					return user.User{ID: "user-2", Role: tt.role}, nil
				},
			}

			m := middlewares.NewAuthMiddleware(manager, users)

			r := gin.New()
			r.POST("/courses", m.RequireAuth(), m.RequireRole(user.RoleInstructor), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"success": true})
			})

			req := httptest.NewRequest(http.MethodPost, "/courses", nil)
			req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
