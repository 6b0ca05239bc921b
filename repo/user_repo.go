package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/user-api/db"
	"github.com/Skryldev/user-api/models"
	"github.com/Skryldev/user-api/query"
)

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository interface — for mocking in tests
// ─────────────────────────────────────────────────────────────────────────────

// UserRepository defines the contract for user persistence operations.
// Update and Delete report rows affected; zero is not an error here.
type UserRepository interface {
	Insert(ctx context.Context, params models.NewUser) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, params models.UpdateUser) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// userRepo — concrete implementation
// ─────────────────────────────────────────────────────────────────────────────

// userRepo is the production implementation backed by the shared pool.
// Every method issues exactly one statement built by query.Builder.
type userRepo struct {
	db *db.DB
	b  *query.Builder
}

// NewUserRepo returns a UserRepository backed by d, rendering SQL in the
// dialect of d's driver.
func NewUserRepo(d *db.DB) UserRepository {
	return &userRepo{db: d, b: query.NewBuilder(d.Dialect())}
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert
// ─────────────────────────────────────────────────────────────────────────────

// Insert creates a user and returns the id assigned by the database.
func (r *userRepo) Insert(ctx context.Context, params models.NewUser) (int64, error) {
	st := r.b.BuildInsert(params.Name, params.Email)

	if r.b.Dialect().Returning() {
		var id int64
		if err := r.db.QueryRowStatement(ctx, st).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := r.db.ExecStatement(ctx, st)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("repo/user: last insert id: %w", err)
	}
	return id, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a single user by primary key.
// Returns db.ErrNotFound when no record matches.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRowStatement(ctx, r.b.BuildSelectByID(id)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ─────────────────────────────────────────────────────────────────────────────

// Update replaces name and email of the user with the given id.
func (r *userRepo) Update(ctx context.Context, id int64, params models.UpdateUser) (int64, error) {
	return r.exec(ctx, r.b.BuildUpdateByID(id, params.Name, params.Email))
}

// Delete removes the user with the given id.
func (r *userRepo) Delete(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, r.b.BuildDeleteByID(id))
}

func (r *userRepo) exec(ctx context.Context, st query.Statement) (int64, error) {
	res, err := r.db.ExecStatement(ctx, st)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repo/user: rows affected: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// scanUser — centralised column mapping
// ─────────────────────────────────────────────────────────────────────────────

// scanUser scans a row selected by query.Builder.BuildSelectByID.
func scanUser(row *db.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, fmt.Errorf("repo/user: %w", err)
	}
	return u, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Compile-time interface assertion
// ─────────────────────────────────────────────────────────────────────────────

var _ UserRepository = (*userRepo)(nil)
