package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/conduit/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, email, password_hash, bio, image, created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var image sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &image, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	if err != nil {
		return u, err
	}
	if image.Valid {
		img := image.String
		u.Image = &img
	}
	return u, nil
}

// Create inserts a user and returns the stored row.  Taken usernames and
// emails surface as *ValidationError via the constraint table.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, passwordHash)
	if err != nil {
		return model.User{}, mapConstraint(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UserPatch carries the optional replacement values for Update.  A nil
// field keeps the stored value.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Bio          *string
	Image        *string
}

// Update applies a partial update to the caller's own user row.  The row is
// locked for the duration of the transaction so concurrent updates of the
// same account serialize; the updated row is read back inside the same
// transaction.  Unique-key collisions on email/username come back as
// *ValidationError.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UserPatch) (model.User, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? FOR UPDATE", id).Scan(&locked)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}

	if p.Email != nil {
		norm := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &norm
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE users SET
			username      = COALESCE(?, username),
			email         = COALESCE(?, email),
			password_hash = COALESCE(?, password_hash),
			bio           = COALESCE(?, bio),
			image         = COALESCE(?, image)
		WHERE id = ?`,
		p.Username, p.Email, p.PasswordHash, p.Bio, p.Image, id)
	if err != nil {
		return model.User{}, mapConstraint(err)
	}

	u, err := scanUser(tx.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	committed = true
	return u, nil
}
