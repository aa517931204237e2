package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/arkodev/learnhub/internal/domain/course"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LecturesRepo struct {
	pool *pgxpool.Pool
	obs  Observer
}

func NewLecturesRepo(pool *pgxpool.Pool) *LecturesRepo {
	return &LecturesRepo{pool: pool}
}

func (r *LecturesRepo) WithObserver(obs Observer) *LecturesRepo {
	r.obs = obs
	return r
}

// Create appends the lecture at the end of the course's lecture list.
// The position is assigned inside the INSERT; ties are broken by
// created_at, id ordering on read.
func (r *LecturesRepo) Create(ctx context.Context, courseID, title string) (course.Lecture, error) {
	now := time.Now().UTC()

	l := course.Lecture{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := observe(r.obs, "lectures.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO lectures (id, course_id, title, position, created_at, updated_at)
			 SELECT $1, $2, $3, COALESCE(MAX(position),0)+1, $4, $5
			 FROM lectures WHERE course_id = $2
			 RETURNING position`,
			l.ID, courseID, title, now, now,
		).Scan(&l.Position)
	})

	if err != nil {
		return course.Lecture{}, err
	}

	return l, nil
}

func (r *LecturesRepo) GetByID(ctx context.Context, id string) (course.Lecture, error) {
	var l course.Lecture

	err := observe(r.obs, "lectures.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, course_id, title, video_url, video_key, is_preview_free, position, created_at, updated_at
			 FROM lectures
			 WHERE id = $1`,
			id,
		).Scan(
			&l.ID,
			&l.CourseID,
			&l.Title,
			&l.VideoURL,
			&l.VideoKey,
			&l.IsPreviewFree,
			&l.Position,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Lecture{}, course.ErrLectureNotFound
		}

		return course.Lecture{}, err
	}

	return l, nil
}

func (r *LecturesRepo) ListByCourse(ctx context.Context, courseID string) ([]course.Lecture, error) {
	out := make([]course.Lecture, 0)

	err := observe(r.obs, "lectures.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, course_id, title, video_url, video_key, is_preview_free, position, created_at, updated_at
			 FROM lectures
			 WHERE course_id = $1
			 ORDER BY position ASC, created_at ASC, id`,
			courseID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var l course.Lecture

			err = rows.Scan(
				&l.ID,
				&l.CourseID,
				&l.Title,
				&l.VideoURL,
				&l.VideoKey,
				&l.IsPreviewFree,
				&l.Position,
				&l.CreatedAt,
				&l.UpdatedAt,
			)

			if err != nil {
				return err
			}

			out = append(out, l)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *LecturesRepo) Update(ctx context.Context, id string, req course.UpdateLectureRequest) (course.Lecture, error) {
	var l course.Lecture

	// nil pointers become NULL, so COALESCE keeps the stored value for any
	// field the request left out
	err := observe(r.obs, "lectures.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE lectures
			 SET title           = COALESCE($2, title),
			     video_url       = COALESCE($3, video_url),
			     video_key       = COALESCE($4, video_key),
			     is_preview_free = COALESCE($5, is_preview_free),
			     updated_at      = NOW()
			 WHERE id = $1
			 RETURNING id, course_id, title, video_url, video_key, is_preview_free, position, created_at, updated_at`,
			id, req.Title, req.VideoURL, req.VideoKey, req.IsPreviewFree,
		).Scan(
			&l.ID,
			&l.CourseID,
			&l.Title,
			&l.VideoURL,
			&l.VideoKey,
			&l.IsPreviewFree,
			&l.Position,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Lecture{}, course.ErrLectureNotFound
		}

		return course.Lecture{}, err
	}

	return l, nil
}

// Delete removes the lecture and returns the deleted row so the caller can
// clean up the media object it referenced.
func (r *LecturesRepo) Delete(ctx context.Context, id string) (course.Lecture, error) {
	var l course.Lecture

	err := observe(r.obs, "lectures.delete", func() error {
		return r.pool.QueryRow(ctx,
			`DELETE FROM lectures
			 WHERE id = $1
			 RETURNING id, course_id, title, video_url, video_key, is_preview_free, position, created_at, updated_at`,
			id,
		).Scan(
			&l.ID,
			&l.CourseID,
			&l.Title,
			&l.VideoURL,
			&l.VideoKey,
			&l.IsPreviewFree,
			&l.Position,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Lecture{}, course.ErrLectureNotFound
		}

		return course.Lecture{}, err
	}

	return l, nil
}
