package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/arkodev/learnhub/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type UsersRepo struct {
	pool *pgxpool.Pool
	obs  Observer
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) WithObserver(obs Observer) *UsersRepo {
	r.obs = obs
	return r
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := observe(r.obs, "users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailInUse
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *UsersRepo) getBy(ctx context.Context, where string, arg any) (user.User, error) {
	var u user.User

	err := observe(r.obs, "users.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, email, password_hash, role, photo_url, photo_key, created_at, updated_at
			 FROM users `+where,
			arg,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.PhotoURL,
			&u.PhotoKey,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// UpdateProfile atomically replaces the display name and photo reference in
// one UPDATE; the store serializes concurrent writes to the row.
func (r *UsersRepo) UpdateProfile(ctx context.Context, id, name, photoURL, photoKey string) (user.User, error) {
	var u user.User

	err := observe(r.obs, "users.update_profile", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE users
			 SET name = $2,
			     photo_url = $3,
			     photo_key = $4,
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING id, name, email, password_hash, role, photo_url, photo_key, created_at, updated_at`,
			id, name, photoURL, photoKey,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.PhotoURL,
			&u.PhotoKey,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// Enroll is idempotent: enrolling twice in the same course is a no-op.
func (r *UsersRepo) Enroll(ctx context.Context, userID, courseID string) error {
	return observe(r.obs, "enrollments.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO enrollments (user_id, course_id, created_at)
			 VALUES ($1,$2,NOW())
			 ON CONFLICT (user_id, course_id) DO NOTHING`,
			userID, courseID,
		)
		return err
	})
}

// EnrolledCourseIDs returns the user's course references ordered by
// enrollment time.
func (r *UsersRepo) EnrolledCourseIDs(ctx context.Context, userID string) ([]string, error) {
	ids := make([]string, 0)

	err := observe(r.obs, "enrollments.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT course_id FROM enrollments WHERE user_id = $1 ORDER BY created_at ASC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var id string

			if err := rows.Scan(&id); err != nil {
				return err
			}

			ids = append(ids, id)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return ids, nil
}
