package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arkodev/learnhub/internal/domain/course"
	"github.com/arkodev/learnhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type fakeLectures struct {
	createFn func(ctx context.Context, courseID, title string) (course.Lecture, error)
	getFn    func(ctx context.Context, id string) (course.Lecture, error)
	listFn   func(ctx context.Context, courseID string) ([]course.Lecture, error)
	updateFn func(ctx context.Context, id string, req course.UpdateLectureRequest) (course.Lecture, error)
	deleteFn func(ctx context.Context, id string) (course.Lecture, error)
}

func (f *fakeLectures) Create(ctx context.Context, courseID, title string) (course.Lecture, error) {
	return f.createFn(ctx, courseID, title)
}

func (f *fakeLectures) GetByID(ctx context.Context, id string) (course.Lecture, error) {
	return f.getFn(ctx, id)
}

func (f *fakeLectures) ListByCourse(ctx context.Context, courseID string) ([]course.Lecture, error) {
	return f.listFn(ctx, courseID)
}

func (f *fakeLectures) Update(ctx context.Context, id string, req course.UpdateLectureRequest) (course.Lecture, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeLectures) Delete(ctx context.Context, id string) (course.Lecture, error) {
	return f.deleteFn(ctx, id)
}

type fakeCourseReader struct {
	courses map[string]course.Course
}

func (f *fakeCourseReader) GetByID(ctx context.Context, id string) (course.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func postJSONMethod(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestCreateLecture(t *testing.T) {
	reader := &fakeCourseReader{
		courses: map[string]course.Course{
			"course-1": {ID: "course-1", Title: "Go", CreatorID: "creator-1"},
		},
	}

	tests := []struct {
		name           string
		path           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "success",
			path:           "/courses/course-1/lectures",
			body:           `{"lectureTitle":"Interfaces"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "course_missing",
			path:           "/courses/nope/lectures",
			body:           `{"lectureTitle":"Interfaces"}`,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "missing_title",
			path:           "/courses/course-1/lectures",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			lectures := &fakeLectures{
				createFn: func(ctx context.Context, courseID, title string) (course.Lecture, error) {
					return course.Lecture{ID: "lecture-1", CourseID: courseID, Title: title, Position: 1}, nil
				},
			}

			h := handlers.NewLecturesHandler(lectures, reader, &fakeMedia{}, testLogger())

			r := gin.New()
			r.POST("/courses/:courseId/lectures", h.CreateLecture)

			w := postJSON(r, tt.path, tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestGetLectureByID(t *testing.T) {
	lectures := &fakeLectures{
		getFn: func(ctx context.Context, id string) (course.Lecture, error) {
			if id == "lecture-1" {
				return course.Lecture{ID: "lecture-1", Title: "Interfaces"}, nil
			}
			return course.Lecture{}, course.ErrLectureNotFound
		},
	}

	h := handlers.NewLecturesHandler(lectures, &fakeCourseReader{}, &fakeMedia{}, testLogger())

	r := gin.New()
	r.GET("/lectures/:lectureId", h.GetLectureByID)

	tests := []struct {
		name           string
		path           string
		wantStatusCode int
	}{
		{"found", "/lectures/lecture-1", http.StatusOK},
		{"missing", "/lectures/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatusCode)
			}
		})
	}
}

func TestUpdateLecturePartialFields(t *testing.T) {
	var gotReq course.UpdateLectureRequest

	lectures := &fakeLectures{
		updateFn: func(ctx context.Context, id string, req course.UpdateLectureRequest) (course.Lecture, error) {
			gotReq = req
			return course.Lecture{ID: id, Title: "Interfaces"}, nil
		},
	}

	h := handlers.NewLecturesHandler(lectures, &fakeCourseReader{}, &fakeMedia{}, testLogger())

	r := gin.New()
	r.PUT("/lectures/:lectureId", h.UpdateLecture)

	w := postJSONMethod(r, http.MethodPut, "/lectures/lecture-1", `{"isPreviewFree":true}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	// untouched fields stay nil so the store can skip them
	if gotReq.Title != nil || gotReq.VideoURL != nil {
		t.Fatalf("unset fields bound as non-nil: %+v", gotReq)
	}

	if gotReq.IsPreviewFree == nil || !*gotReq.IsPreviewFree {
		t.Fatalf("isPreviewFree not bound: %+v", gotReq)
	}
}

func TestRemoveLectureDeletesVideo(t *testing.T) {
	lectures := &fakeLectures{
		deleteFn: func(ctx context.Context, id string) (course.Lecture, error) {
			if id != "lecture-1" {
				return course.Lecture{}, course.ErrLectureNotFound
			}
			return course.Lecture{ID: "lecture-1", VideoKey: "videos/2026/lecture-1.mp4"}, nil
		},
	}

	media := &fakeMedia{}
	h := handlers.NewLecturesHandler(lectures, &fakeCourseReader{}, media, testLogger())

	r := gin.New()
	r.DELETE("/lectures/:lectureId", h.RemoveLecture)

	req := httptest.NewRequest(http.MethodDelete, "/lectures/lecture-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if len(media.deletes) != 1 || media.deletes[0] != "videos/2026/lecture-1.mp4" {
		t.Fatalf("video object not deleted: %v", media.deletes)
	}

	missing := httptest.NewRequest(http.MethodDelete, "/lectures/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, missing)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d for missing lecture, want 404", w.Code)
	}
}
