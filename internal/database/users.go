package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomlens/internal/models"
	"ecomlens/internal/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, email, role, usage_count, usage_limit, last_reset_date::text, password_hash, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Role,
		&u.UsageCount,
		&u.UsageLimit,
		&u.LastResetDate,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (q *Queries) List(ctx context.Context) ([]models.User, error) {
	rows, err := q.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (q *Queries) GetByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (q *Queries) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) ORDER BY seq LIMIT 1`
	return scanUser(q.db.QueryRow(ctx, query, email))
}

func (q *Queries) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO users (id, email, role, usage_count, usage_limit, last_reset_date, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8)
	`
	_, err := q.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Role,
		user.UsageCount,
		user.UsageLimit,
		user.LastResetDate,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (q *Queries) Upsert(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, role = $3, usage_count = $4, usage_limit = $5, last_reset_date = $6::date, password_hash = $7
		WHERE id = $1
	`
	_, err := q.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Role,
		user.UsageCount,
		user.UsageLimit,
		user.LastResetDate,
		user.PasswordHash,
	)
	return err
}

func (q *Queries) SeedIfEmpty(ctx context.Context, admin *models.User) (bool, error) {
	query := `
		INSERT INTO users (id, email, role, usage_count, usage_limit, last_reset_date)
		SELECT $1, $2, $3, $4, $5, $6::date
		WHERE NOT EXISTS (SELECT 1 FROM users)
	`
	tag, err := q.db.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.Role,
		admin.UsageCount,
		admin.UsageLimit,
		admin.LastResetDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (q *Queries) IncrementUsage(ctx context.Context, id string) (*models.User, error) {
	query := `UPDATE users SET usage_count = usage_count + 1 WHERE id = $1 RETURNING ` + userColumns
	return scanUser(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) ResetUsageIfStale(ctx context.Context, id string, today string) (*models.User, error) {
	query := `
		UPDATE users SET usage_count = 0, last_reset_date = $2::date
		WHERE id = $1 AND last_reset_date <> $2::date
		RETURNING ` + userColumns
	u, err := scanUser(q.db.QueryRow(ctx, query, id, today))
	if errors.Is(err, users.ErrUserNotFound) {
		return q.GetByID(ctx, id)
	}
	return u, err
}

func (q *Queries) SetLimit(ctx context.Context, id string, limit int) (*models.User, error) {
	query := `UPDATE users SET usage_limit = $2 WHERE id = $1 RETURNING ` + userColumns
	return scanUser(q.db.QueryRow(ctx, query, id, limit))
}

// AdjustLimit locks the user's row for the duration of the transaction so
// concurrent adjustments are applied one after another.
func (s *Store) AdjustLimit(ctx context.Context, id string, delta int) (*models.User, error) {
	var out *models.User
	err := s.ExecTx(ctx, func(q *Queries) error {
		var current int
		err := q.db.QueryRow(ctx, `SELECT usage_limit FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return users.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock user %s: %w", id, err)
		}
		out, err = q.SetLimit(ctx, id, users.AddLimit(current, delta))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
