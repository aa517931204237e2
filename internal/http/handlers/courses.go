package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arkodev/learnhub/internal/apperr"
	"github.com/arkodev/learnhub/internal/cache"
	"github.com/arkodev/learnhub/internal/domain/course"
	"github.com/arkodev/learnhub/internal/http/middlewares"
	"github.com/arkodev/learnhub/internal/media"
	"github.com/gin-gonic/gin"
)

type CourseStore interface {
	Create(ctx context.Context, title, category, creatorID string) (course.Course, error)
	GetByID(ctx context.Context, id string) (course.Course, error)
	ListPublished(ctx context.Context) ([]course.Course, error)
	ListByCreator(ctx context.Context, creatorID string) ([]course.Course, error)
	Search(ctx context.Context, filter course.SearchFilter) ([]course.Course, error)
	Update(ctx context.Context, id string, req course.UpdateCourseRequest, thumbnailURL, thumbnailKey *string) (course.Course, error)
	SetPublished(ctx context.Context, id string, published bool) (course.Course, error)
	Categories(ctx context.Context) ([]string, error)
}

type Enroller interface {
	Enroll(ctx context.Context, userID, courseID string) error
}

// ListCache is the redis-backed cache for the published-course listing.
type ListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

const (
	publishedCacheKey = "courses:published:v1"
	publishedCacheTTL = 30 * time.Second
	categoriesKey     = "courses:categories"
)

type CoursesHandler struct {
	courses    CourseStore
	enroller   Enroller
	media      media.Store
	listCache  ListCache
	localCache *cache.Cache
	log        *slog.Logger
}

func NewCoursesHandler(courses CourseStore, enroller Enroller, mediaStore media.Store, listCache ListCache, localCache *cache.Cache, log *slog.Logger) *CoursesHandler {
	return &CoursesHandler{
		courses:    courses,
		enroller:   enroller,
		media:      mediaStore,
		listCache:  listCache,
		localCache: localCache,
		log:        log,
	}
}

func (h *CoursesHandler) CreateCourse(ctx *gin.Context) {
	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondAppError(ctx, errNotAuthenticated(), "")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.courses.Create(cctx, req.Title, req.Category, uid)

	if err != nil {
		RespondAppError(ctx, err, "Failed to create course")
		return
	}

	h.localCache.Delete(categoriesKey)

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Course created",
		"course":  c,
	})
}

func (h *CoursesHandler) GetPublishedCourses(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	var courses []course.Course

	if h.listCache != nil {
		hit, err := h.listCache.GetJSON(cctx, publishedCacheKey, &courses)

		if err != nil {
			// cache trouble must not take the listing down
			h.log.WarnContext(cctx, "published course cache read", "err", err)
		}

		if hit {
			h.respondPublished(ctx, courses)
			return
		}
	}

	courses, err := h.courses.ListPublished(cctx)

	if err != nil {
		RespondAppError(ctx, err, "Failed to get published courses")
		return
	}

	if h.listCache != nil {
		if err := h.listCache.SetJSON(cctx, publishedCacheKey, courses, publishedCacheTTL); err != nil {
			h.log.WarnContext(cctx, "published course cache write", "err", err)
		}
	}

	h.respondPublished(ctx, courses)
}

func (h *CoursesHandler) respondPublished(ctx *gin.Context, courses []course.Course) {
	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"success": true,
		"courses": courses,
	})
}

func (h *CoursesHandler) SearchCourses(ctx *gin.Context) {
	filter := course.SearchFilter{
		Query:       strings.TrimSpace(ctx.Query("query")),
		SortByPrice: ctx.Query("sortByPrice"),
	}

	for _, c := range ctx.QueryArray("categories") {
		c = strings.TrimSpace(c)
		if c != "" {
			filter.Categories = append(filter.Categories, c)
		}
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	courses, err := h.courses.Search(cctx, filter)

	if err != nil {
		RespondAppError(ctx, err, "Failed to search courses")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"courses": courses,
	})
}

func (h *CoursesHandler) GetCreatorCourses(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondAppError(ctx, errNotAuthenticated(), "")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	courses, err := h.courses.ListByCreator(cctx, uid)

	if err != nil {
		RespondAppError(ctx, err, "Failed to fetch courses")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"courses": courses,
	})
}

func (h *CoursesHandler) GetCourseByID(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.courses.GetByID(cctx, ctx.Param("courseId"))

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Course not found", err)
		}

		RespondAppError(ctx, err, "Failed to get course")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"course":  c,
	})
}

func (h *CoursesHandler) UpdateCourse(ctx *gin.Context) {
	var req course.UpdateCourseRequest

	if !BindForm(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	existing, ok := h.ownedCourse(ctx, cctx)

	if !ok {
		return
	}

	var thumbnailURL, thumbnailKey *string

	fileHeader, err := ctx.FormFile("courseThumbnail")

	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()

		if err != nil {
			RespondAppError(ctx, apperr.Wrap(apperr.KindValidation, "Could not read uploaded thumbnail", err), "")
			return
		}
		defer file.Close()

		key := media.ObjectKey("thumbnails", fileHeader.Filename)

		url, err := h.media.Upload(cctx, key, fileHeader.Header.Get("Content-Type"), file)

		if err != nil {
			RespondAppError(ctx, err, "Failed to upload thumbnail")
			return
		}

		if existing.ThumbnailKey != "" {
			if err := h.media.Delete(cctx, existing.ThumbnailKey); err != nil {
				h.log.WarnContext(cctx, "delete old thumbnail", "key", existing.ThumbnailKey, "err", err)
			}
		}

		thumbnailURL = &url
		thumbnailKey = &key
	}

	updated, err := h.courses.Update(cctx, existing.ID, req, thumbnailURL, thumbnailKey)

	if err != nil {
		RespondAppError(ctx, err, "Failed to update course")
		return
	}

	h.invalidateListings(cctx)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Course updated successfully",
		"course":  updated,
	})
}

func (h *CoursesHandler) TogglePublish(ctx *gin.Context) {
	publish := ctx.Query("publish") == "true"

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	existing, ok := h.ownedCourse(ctx, cctx)

	if !ok {
		return
	}

	updated, err := h.courses.SetPublished(cctx, existing.ID, publish)

	if err != nil {
		RespondAppError(ctx, err, "Failed to update publish status")
		return
	}

	h.invalidateListings(cctx)

	statusMessage := "unpublished"
	if updated.IsPublished {
		statusMessage = "published"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Course is " + statusMessage,
		"course":  updated,
	})
}

func (h *CoursesHandler) GetCategories(ctx *gin.Context) {
	if v, ok := h.localCache.Get(categoriesKey); ok {
		if categories, ok := v.([]string); ok {
			ctx.JSON(http.StatusOK, gin.H{
				"success":    true,
				"categories": categories,
			})
			return
		}
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	categories, err := h.courses.Categories(cctx)

	if err != nil {
		RespondAppError(ctx, err, "Failed to load categories")
		return
	}

	h.localCache.Set(categoriesKey, categories)

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

func (h *CoursesHandler) Enroll(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondAppError(ctx, errNotAuthenticated(), "")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.courses.GetByID(cctx, ctx.Param("courseId"))

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Course not found", err)
		}

		RespondAppError(ctx, err, "Failed to enroll")
		return
	}

	if !c.IsPublished {
		RespondAppError(ctx, apperr.New(apperr.KindValidation, "Course is not open for enrollment"), "")
		return
	}

	if err := h.enroller.Enroll(cctx, uid, c.ID); err != nil {
		RespondAppError(ctx, err, "Failed to enroll")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Enrolled in " + c.Title,
	})
}

// ownedCourse loads the :courseId course and checks the caller authored it.
func (h *CoursesHandler) ownedCourse(ctx *gin.Context, cctx context.Context) (course.Course, bool) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondAppError(ctx, errNotAuthenticated(), "")
		return course.Course{}, false
	}

	c, err := h.courses.GetByID(cctx, ctx.Param("courseId"))

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Course not found", err)
		}

		RespondAppError(ctx, err, "Failed to load course")
		return course.Course{}, false
	}

	if c.CreatorID != uid {
		RespondAppError(ctx, apperr.New(apperr.KindForbidden, "Only the course creator can modify it"), "")
		return course.Course{}, false
	}

	return c, true
}

func (h *CoursesHandler) invalidateListings(ctx context.Context) {
	h.localCache.Delete(categoriesKey)

	if h.listCache == nil {
		return
	}

	if err := h.listCache.Invalidate(ctx, publishedCacheKey); err != nil {
		h.log.WarnContext(ctx, "invalidate published course cache", "err", err)
	}
}
