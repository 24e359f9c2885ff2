package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/conduit/internal/model"
)

// ProfileRepo reads public user profiles and maintains the follow edges
// between users.  Follow/Unfollow are idempotent: repeating either leaves
// exactly the state it names, never an error.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

func scanProfile(row *sql.Row, targetID *uint64) (model.Profile, error) {
	var p model.Profile
	var image sql.NullString
	err := row.Scan(targetID, &p.Username, &p.Bio, &image, &p.Following)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}
	return p, nil
}

// GetByUsername returns a profile as seen by viewerID.  viewerID zero means
// an anonymous viewer, for whom `following` is always false.
func (r *ProfileRepo) GetByUsername(ctx context.Context, viewerID uint64, username string) (model.Profile, error) {
	var id uint64
	return scanProfile(r.DB.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.bio, u.image,
		       EXISTS(SELECT 1 FROM follows f WHERE f.followed_id = u.id AND f.follower_id = ?) AS following
		FROM users u WHERE u.username = ? LIMIT 1`,
		viewerID, username), &id)
}

// Follow creates the follow edge follower -> username and returns the
// resulting profile.  Following an already-followed user is a no-op; the
// insert resolves duplicate-key collisions by doing nothing, so exactly one
// edge exists afterwards.  Following yourself is rejected before any write.
// The target lookup and the edge insert share one transaction so the two
// observations stay consistent.
func (r *ProfileRepo) Follow(ctx context.Context, followerID uint64, username string) (model.Profile, error) {
	return r.toggleFollow(ctx, followerID, username, true)
}

// Unfollow removes the follow edge if present.  A missing edge is not an
// error; only a missing target user is.
func (r *ProfileRepo) Unfollow(ctx context.Context, followerID uint64, username string) (model.Profile, error) {
	return r.toggleFollow(ctx, followerID, username, false)
}

func (r *ProfileRepo) toggleFollow(ctx context.Context, followerID uint64, username string, follow bool) (model.Profile, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Profile{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var p model.Profile
	var targetID uint64
	var image sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT id, username, bio, image FROM users WHERE username = ? LIMIT 1",
		username).Scan(&targetID, &p.Username, &p.Bio, &image)
	if err == sql.ErrNoRows {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	if image.Valid {
		img := image.String
		p.Image = &img
	}

	if follow {
		if targetID == followerID {
			return model.Profile{}, ErrForbidden
		}
		// no-op on an existing edge
		_, err = tx.ExecContext(ctx, `
			INSERT INTO follows (follower_id, followed_id) VALUES (?,?)
			ON DUPLICATE KEY UPDATE follower_id = follower_id`,
			followerID, targetID)
	} else {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM follows WHERE follower_id = ? AND followed_id = ?",
			followerID, targetID)
	}
	if err != nil {
		return model.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Profile{}, err
	}
	committed = true
	p.Following = follow
	return p, nil
}
