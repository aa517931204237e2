package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/arkodev/learnhub/internal/apperr"
	"github.com/arkodev/learnhub/internal/domain/course"
	"github.com/arkodev/learnhub/internal/media"
	"github.com/gin-gonic/gin"
)

type LectureStore interface {
	Create(ctx context.Context, courseID, title string) (course.Lecture, error)
	GetByID(ctx context.Context, id string) (course.Lecture, error)
	ListByCourse(ctx context.Context, courseID string) ([]course.Lecture, error)
	Update(ctx context.Context, id string, req course.UpdateLectureRequest) (course.Lecture, error)
	Delete(ctx context.Context, id string) (course.Lecture, error)
}

type CourseReader interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
}

type LecturesHandler struct {
	lectures LectureStore
	courses  CourseReader
	media    media.Store
	log      *slog.Logger
}

func NewLecturesHandler(lectures LectureStore, courses CourseReader, mediaStore media.Store, log *slog.Logger) *LecturesHandler {
	return &LecturesHandler{
		lectures: lectures,
		courses:  courses,
		media:    mediaStore,
		log:      log,
	}
}

func (h *LecturesHandler) CreateLecture(ctx *gin.Context) {
	var req course.CreateLectureRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// the lecture must hang off an existing course
	c, err := h.courses.GetByID(cctx, ctx.Param("courseId"))

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Course not found", err)
		}

		RespondAppError(ctx, err, "Failed to create lecture")
		return
	}

	l, err := h.lectures.Create(cctx, c.ID, req.Title)

	if err != nil {
		RespondAppError(ctx, err, "Failed to create lecture")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Lecture created successfully",
		"lecture": l,
	})
}

func (h *LecturesHandler) GetCourseLectures(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.courses.GetByID(cctx, ctx.Param("courseId"))

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Course not found", err)
		}

		RespondAppError(ctx, err, "Failed to get lectures")
		return
	}

	lectures, err := h.lectures.ListByCourse(cctx, c.ID)

	if err != nil {
		RespondAppError(ctx, err, "Failed to get lectures")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"lectures": lectures,
	})
}

func (h *LecturesHandler) GetLectureByID(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	l, err := h.lectures.GetByID(cctx, ctx.Param("lectureId"))

	if err != nil {
		if errors.Is(err, course.ErrLectureNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Lecture not found", err)
		}

		RespondAppError(ctx, err, "Failed to get lecture")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"lecture": l,
	})
}

func (h *LecturesHandler) UpdateLecture(ctx *gin.Context) {
	var req course.UpdateLectureRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	l, err := h.lectures.Update(cctx, ctx.Param("lectureId"), req)

	if err != nil {
		if errors.Is(err, course.ErrLectureNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Lecture not found", err)
		}

		RespondAppError(ctx, err, "Failed to update lecture")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lecture updated successfully",
		"lecture": l,
	})
}

func (h *LecturesHandler) RemoveLecture(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	l, err := h.lectures.Delete(cctx, ctx.Param("lectureId"))

	if err != nil {
		if errors.Is(err, course.ErrLectureNotFound) {
			err = apperr.Wrap(apperr.KindNotFound, "Lecture not found", err)
		}

		RespondAppError(ctx, err, "Failed to remove lecture")
		return
	}

	// Best effort: the row is already gone, an orphaned video object is
	// logged rather than failing the request.
	if l.VideoKey != "" {
		if err := h.media.Delete(cctx, l.VideoKey); err != nil {
			h.log.WarnContext(cctx, "delete lecture video", "key", l.VideoKey, "err", err)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lecture removed successfully",
	})
}
