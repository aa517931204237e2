package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arkodev/learnhub/internal/domain/course"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoursesRepo struct {
	pool *pgxpool.Pool
	obs  Observer
}

func NewCoursesRepo(pool *pgxpool.Pool) *CoursesRepo {
	return &CoursesRepo{pool: pool}
}

func (r *CoursesRepo) WithObserver(obs Observer) *CoursesRepo {
	r.obs = obs
	return r
}

const courseColumns = `c.id, c.title, c.sub_title, c.description, c.category, c.level, c.price,
	c.thumbnail_url, c.thumbnail_key, c.creator_id, u.name, u.photo_url, c.is_published,
	(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id),
	c.created_at, c.updated_at`

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.SubTitle,
		&c.Description,
		&c.Category,
		&c.Level,
		&c.Price,
		&c.ThumbnailURL,
		&c.ThumbnailKey,
		&c.CreatorID,
		&c.CreatorName,
		&c.CreatorPhoto,
		&c.IsPublished,
		&c.EnrolledCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	return c, err
}

func (r *CoursesRepo) Create(ctx context.Context, title, category, creatorID string) (course.Course, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	err := observe(r.obs, "courses.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO courses (id, title, category, creator_id, is_published, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,false,$5,$6)`,
			id, title, category, creatorID, now, now,
		)
		return err
	})

	if err != nil {
		return course.Course{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := observe(r.obs, "courses.get", func() error {
		var err error
		c, err = scanCourse(r.pool.QueryRow(ctx,
			`SELECT `+courseColumns+`
			 FROM courses c
			 JOIN users u ON u.id = c.creator_id
			 WHERE c.id = $1`,
			id,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

func (r *CoursesRepo) ListPublished(ctx context.Context) ([]course.Course, error) {
	return r.list(ctx, "courses.list_published",
		`SELECT `+courseColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.creator_id
		 WHERE c.is_published
		 ORDER BY c.created_at DESC, c.id`,
	)
}

func (r *CoursesRepo) ListByCreator(ctx context.Context, creatorID string) ([]course.Course, error) {
	return r.list(ctx, "courses.list_by_creator",
		`SELECT `+courseColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.creator_id
		 WHERE c.creator_id = $1
		 ORDER BY c.created_at DESC, c.id`,
		creatorID,
	)
}

// Search builds the WHERE clause dynamically from the filter, always with
// positional args, never by splicing values into the SQL text.
func (r *CoursesRepo) Search(ctx context.Context, filter course.SearchFilter) ([]course.Course, error) {
	conds := []string{"c.is_published"}
	var args []interface{}

	argPos := 1

	if filter.Query != "" {
		conds = append(conds, fmt.Sprintf(
			"(c.title ILIKE $%d OR c.sub_title ILIKE $%d OR c.category ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}

	if len(filter.Categories) > 0 {
		conds = append(conds, fmt.Sprintf("c.category = ANY($%d)", argPos))
		args = append(args, filter.Categories)
		argPos++
	}

	query := `SELECT ` + courseColumns + `
		FROM courses c
		JOIN users u ON u.id = c.creator_id
		WHERE ` + strings.Join(conds, " AND ")

	switch filter.SortByPrice {
	case "low":
		query += " ORDER BY c.price ASC, c.id"
	case "high":
		query += " ORDER BY c.price DESC, c.id"
	default:
		// stable ordering either way
		query += " ORDER BY c.created_at DESC, c.id"
	}

	return r.list(ctx, "courses.search", query, args...)
}

func (r *CoursesRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]course.Course, error) {
	output := make([]course.Course, 0)

	err := observe(r.obs, op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			c, err := scanCourse(rows)

			if err != nil {
				return err
			}

			output = append(output, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Update applies only the fields present in the request; empty fields keep
// their stored value. Thumbnail is replaced only when a new one was uploaded.
func (r *CoursesRepo) Update(ctx context.Context, id string, req course.UpdateCourseRequest, thumbnailURL, thumbnailKey *string) (course.Course, error) {
	err := observe(r.obs, "courses.update", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE courses
		 SET title         = COALESCE(NULLIF($2,''), title),
		     sub_title     = COALESCE(NULLIF($3,''), sub_title),
		     description   = COALESCE(NULLIF($4,''), description),
		     category      = COALESCE(NULLIF($5,''), category),
		     level         = COALESCE(NULLIF($6,''), level),
		     price         = COALESCE(NULLIF($7,0), price),
		     thumbnail_url = COALESCE($8, thumbnail_url),
		     thumbnail_key = COALESCE($9, thumbnail_key),
		     updated_at    = NOW()
		 WHERE id = $1`,
			id, req.Title, req.SubTitle, req.Description, req.Category, req.Level, req.Price,
			thumbnailURL, thumbnailKey,
		)
		return err
	})

	if err != nil {
		return course.Course{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *CoursesRepo) SetPublished(ctx context.Context, id string, published bool) (course.Course, error) {
	var tag pgconn.CommandTag

	err := observe(r.obs, "courses.set_published", func() error {
		var err error
		tag, err = r.pool.Exec(ctx,
			`UPDATE courses SET is_published = $2, updated_at = NOW() WHERE id = $1`,
			id, published,
		)
		return err
	})

	if err != nil {
		return course.Course{}, err
	}

	if tag.RowsAffected() == 0 {
		return course.Course{}, course.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Categories lists the distinct categories across published courses.
func (r *CoursesRepo) Categories(ctx context.Context) ([]string, error) {
	out := make([]string, 0)

	err := observe(r.obs, "courses.categories", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT DISTINCT category FROM courses WHERE is_published ORDER BY category`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var c string

			if err := rows.Scan(&c); err != nil {
				return err
			}

			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
