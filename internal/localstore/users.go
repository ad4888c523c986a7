package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ecomlens/internal/models"
	"ecomlens/internal/users"
)

// UserRepository stores every user record in one versioned blob. Each
// mutation is a read-modify-write inside a single transaction.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) load(ctx context.Context, q DBTX) ([]models.User, error) {
	kv := NewKV(q)

	raw, err := kv.Get(ctx, usersKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		raw, err = kv.Get(ctx, legacyUsersKey)
		if err != nil {
			return nil, err
		}
	}
	if raw == nil {
		return []models.User{}, nil
	}
	return decodeUsers(raw)
}

func (r *UserRepository) save(ctx context.Context, q DBTX, list []models.User) error {
	raw, err := encodeUsers(list)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	kv := NewKV(q)
	if err := kv.Set(ctx, usersKey, raw); err != nil {
		return err
	}
	return kv.Delete(ctx, legacyUsersKey)
}

// mutate loads all users, lets fn change them, and writes them back when fn
// reports a change.
func (r *UserRepository) mutate(ctx context.Context, fn func(list []models.User) ([]models.User, bool, error)) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		list, err := r.load(ctx, tx)
		if err != nil {
			return err
		}
		list, changed, err := fn(list)
		if err != nil || !changed {
			return err
		}
		return r.save(ctx, tx, list)
	})
}

// Migrate rewrites a legacy blob into the current schema.
func (r *UserRepository) Migrate(ctx context.Context) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		legacy, err := NewKV(tx).Get(ctx, legacyUsersKey)
		if err != nil || legacy == nil {
			return err
		}
		list, err := r.load(ctx, tx)
		if err != nil {
			return err
		}
		return r.save(ctx, tx, list)
	})
}

func indexByID(list []models.User, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.load(ctx, r.db)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	list, err := r.load(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if i := indexByID(list, id); i >= 0 {
		return &list[i], nil
	}
	return nil, users.ErrUserNotFound
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	list, err := r.load(ctx, r.db)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Email, email) {
			return &list[i], nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		for _, u := range list {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, false, users.ErrDuplicateUser
			}
		}
		return append(list, *user), true, nil
	})
}

func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	return r.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		i := indexByID(list, user.ID)
		if i < 0 {
			return list, false, nil
		}
		list[i] = *user
		return list, true, nil
	})
}

func (r *UserRepository) SeedIfEmpty(ctx context.Context, admin *models.User) (bool, error) {
	var seeded bool
	err := r.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		if len(list) > 0 {
			return list, false, nil
		}
		seeded = true
		return append(list, *admin), true, nil
	})
	return seeded, err
}

// update applies fn to the record with the given id and returns a copy of
// the result.
func (r *UserRepository) update(ctx context.Context, id string, fn func(u *models.User) bool) (*models.User, error) {
	var out models.User
	err := r.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		i := indexByID(list, id)
		if i < 0 {
			return nil, false, users.ErrUserNotFound
		}
		changed := fn(&list[i])
		out = list[i]
		return list, changed, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) IncrementUsage(ctx context.Context, id string) (*models.User, error) {
	return r.update(ctx, id, func(u *models.User) bool {
		u.UsageCount++
		return true
	})
}

func (r *UserRepository) ResetUsageIfStale(ctx context.Context, id string, today string) (*models.User, error) {
	return r.update(ctx, id, func(u *models.User) bool {
		if u.LastResetDate == today {
			return false
		}
		u.UsageCount = 0
		u.LastResetDate = today
		return true
	})
}

func (r *UserRepository) SetLimit(ctx context.Context, id string, limit int) (*models.User, error) {
	return r.update(ctx, id, func(u *models.User) bool {
		u.UsageLimit = limit
		return true
	})
}

func (r *UserRepository) AdjustLimit(ctx context.Context, id string, delta int) (*models.User, error) {
	return r.update(ctx, id, func(u *models.User) bool {
		u.UsageLimit = users.AddLimit(u.UsageLimit, delta)
		return true
	})
}
