package course

import (
	"errors"
	"time"
)

type Course struct {
	ID            string    `json:"id"`
	Title         string    `json:"courseTitle"`
	SubTitle      string    `json:"subTitle,omitempty"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	Level         string    `json:"courseLevel,omitempty"`
	Price         int       `json:"coursePrice"`
	ThumbnailURL  string    `json:"courseThumbnail,omitempty"`
	ThumbnailKey  string    `json:"-"`
	CreatorID     string    `json:"creatorId"`
	CreatorName   string    `json:"creatorName,omitempty"`
	CreatorPhoto  string    `json:"creatorPhoto,omitempty"`
	IsPublished   bool      `json:"isPublished"`
	EnrolledCount int       `json:"enrolledCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Lecture struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"courseId"`
	Title         string    `json:"lectureTitle"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	VideoKey      string    `json:"-"`
	IsPreviewFree bool      `json:"isPreviewFree"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var (
	ErrNotFound        = errors.New("course not found")
	ErrLectureNotFound = errors.New("lecture not found")
)

type CreateCourseRequest struct {
	Title    string `json:"courseTitle" binding:"required,min=3,max=120"`
	Category string `json:"category" binding:"required,min=2,max=80"`
}

// A full update payload bound from multipart form fields; the optional
// thumbnail file travels alongside and is handled by the handler.
type UpdateCourseRequest struct {
	Title       string `form:"courseTitle" binding:"omitempty,min=3,max=120"`
	SubTitle    string `form:"subTitle" binding:"omitempty,max=200"`
	Description string `form:"description" binding:"omitempty,max=5000"`
	Category    string `form:"category" binding:"omitempty,min=2,max=80"`
	Level       string `form:"courseLevel" binding:"omitempty,oneof=Beginner Medium Advance"`
	Price       int    `form:"coursePrice" binding:"omitempty,min=0"`
}

type CreateLectureRequest struct {
	Title string `json:"lectureTitle" binding:"required,min=1,max=200"`
}

type UpdateLectureRequest struct {
	Title         *string `json:"lectureTitle" binding:"omitempty,min=1,max=200"`
	VideoURL      *string `json:"videoUrl" binding:"omitempty,url"`
	VideoKey      *string `json:"publicId"`
	IsPreviewFree *bool   `json:"isPreviewFree"`
}

// SearchFilter narrows the published-course search; zero values mean "not set".
type SearchFilter struct {
	Query      string
	Categories []string
	// "low" or "high"; empty means no price ordering
	SortByPrice string
}
