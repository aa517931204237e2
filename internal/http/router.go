package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/arkodev/learnhub/internal/auth"
	"github.com/arkodev/learnhub/internal/cache"
	"github.com/arkodev/learnhub/internal/config"
	"github.com/arkodev/learnhub/internal/domain/user"
	"github.com/arkodev/learnhub/internal/http/handlers"
	"github.com/arkodev/learnhub/internal/http/middlewares"
	"github.com/arkodev/learnhub/internal/media"
	"github.com/arkodev/learnhub/internal/observability"
	"github.com/arkodev/learnhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 20 << 20 // uploads ride in multipart bodies

// Deps carries the process-wide collaborators main wires up once.
type Deps struct {
	Pool      *pgxpool.Pool
	Media     media.Store
	ListCache handlers.ListCache
	Prom      *observability.Prom
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("learnhub"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	ping := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	// session plumbing, one policy for attach and clear
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL())
	cookiePolicy := auth.NewCookiePolicy(
		int(cfg.SessionTTL().Seconds()),
		cfg.CookieSecure(),
		cfg.CookieSameSite(),
	)

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(deps.Pool)
	coursesRepo := postgres.NewCoursesRepo(deps.Pool)
	lecturesRepo := postgres.NewLecturesRepo(deps.Pool)

	if deps.Prom != nil {
		usersRepo.WithObserver(deps.Prom.ObserveDB)
		coursesRepo.WithObserver(deps.Prom.ObserveDB)
		lecturesRepo.WithObserver(deps.Prom.ObserveDB)
	}

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, cookiePolicy, deps.Media, log)
	coursesHandler := handlers.NewCoursesHandler(coursesRepo, usersRepo, deps.Media, deps.ListCache, cache.New(30*time.Second), log)
	lecturesHandler := handlers.NewLecturesHandler(lecturesRepo, coursesRepo, deps.Media, log)

	authMW := middlewares.NewAuthMiddleware(jwtManager, usersRepo)
	requireAuth := authMW.RequireAuth()
	requireInstructor := authMW.RequireRole(user.RoleInstructor)

	// the credential endpoints get a small fixed-window limiter
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	limited := loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP)

	r.POST("/register", limited, authHandler.Register)
	r.POST("/login", limited, authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/profile", requireAuth, authHandler.GetProfile)
	r.PUT("/profile", requireAuth, authHandler.UpdateProfile)

	r.GET("/courses/published", coursesHandler.GetPublishedCourses)
	r.GET("/courses/search", coursesHandler.SearchCourses)
	r.GET("/courses/categories", coursesHandler.GetCategories)
	r.GET("/courses/:courseId", coursesHandler.GetCourseByID)
	r.GET("/courses/:courseId/lectures", lecturesHandler.GetCourseLectures)
	r.GET("/lectures/:lectureId", lecturesHandler.GetLectureByID)

	r.POST("/courses", requireAuth, requireInstructor, coursesHandler.CreateCourse)
	r.GET("/courses", requireAuth, requireInstructor, coursesHandler.GetCreatorCourses)
	r.PUT("/courses/:courseId", requireAuth, requireInstructor, coursesHandler.UpdateCourse)
	r.PATCH("/courses/:courseId/publish", requireAuth, requireInstructor, coursesHandler.TogglePublish)
	r.POST("/courses/:courseId/lectures", requireAuth, requireInstructor, lecturesHandler.CreateLecture)
	r.PUT("/lectures/:lectureId", requireAuth, requireInstructor, lecturesHandler.UpdateLecture)
	r.DELETE("/lectures/:lectureId", requireAuth, requireInstructor, lecturesHandler.RemoveLecture)

	r.POST("/courses/:courseId/enroll", requireAuth, coursesHandler.Enroll)

	return r
}
