package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/conduit/internal/model"
)

// CommentRepo provides comment CRD for articles.  Comments are owned by
// their author; only the author may delete one.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// commentQ joins the author row and the viewer-dependent following flag.
// Bind order: viewer id, then the clause's own parameters.
const commentQ = `
	SELECT c.id, c.created_at, c.updated_at, c.body,
	       u.username, u.bio, u.image,
	       EXISTS(SELECT 1 FROM follows f WHERE f.followed_id = c.user_id AND f.follower_id = ?) AS following
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func scanComment(row rowScanner) (model.Comment, error) {
	var cm model.Comment
	var image sql.NullString
	err := row.Scan(&cm.ID, &cm.CreatedAt, &cm.UpdatedAt, &cm.Body,
		&cm.Author.Username, &cm.Author.Bio, &image, &cm.Author.Following)
	if err != nil {
		return cm, err
	}
	if image.Valid {
		img := image.String
		cm.Author.Image = &img
	}
	return cm, nil
}

// articleIDBySlug resolves a slug inside q, returning ErrNotFound for a
// missing article.
func articleIDBySlug(ctx context.Context, q dbtx, slug string) (uint64, error) {
	var id uint64
	err := q.QueryRowContext(ctx,
		"SELECT id FROM articles WHERE slug = ? LIMIT 1", slug).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return id, err
}

// Add inserts a comment by authorID on the article named by slug and reads
// the stored row back inside the same transaction.
func (r *CommentRepo) Add(ctx context.Context, authorID uint64, slug, body string) (model.Comment, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Comment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	articleID, err := articleIDBySlug(ctx, tx, slug)
	if err != nil {
		return model.Comment{}, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO comments (article_id, user_id, body) VALUES (?,?,?)",
		articleID, authorID, body)
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}

	cm, err := scanComment(tx.QueryRowContext(ctx, commentQ+" WHERE c.id = ?", authorID, id))
	if err != nil {
		return model.Comment{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Comment{}, err
	}
	committed = true
	return cm, nil
}

// ListBySlug returns the comments on an article, oldest first, as seen by
// viewerID (zero for anonymous).  A missing article is ErrNotFound.
func (r *CommentRepo) ListBySlug(ctx context.Context, viewerID uint64, slug string) ([]model.Comment, error) {
	articleID, err := articleIDBySlug(ctx, r.DB, slug)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		commentQ+" WHERE c.article_id = ? ORDER BY c.created_at", viewerID, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]model.Comment, 0)
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// Delete removes a comment owned by callerID from the article named by
// slug.  The delete is guarded by comment id, slug and owner in a single
// statement; when nothing was deleted an existence check distinguishes a
// foreign comment (ErrForbidden) from a missing one (ErrNotFound).
func (r *CommentRepo) Delete(ctx context.Context, callerID uint64, slug string, commentID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		DELETE c FROM comments c
		JOIN articles a ON a.id = c.article_id
		WHERE c.id = ? AND a.slug = ? AND c.user_id = ?`,
		commentID, slug, callerID)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		var existed bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM comments c
				JOIN articles a ON a.id = c.article_id
				WHERE c.id = ? AND a.slug = ?)`,
			commentID, slug).Scan(&existed); err != nil {
			return err
		}
		if existed {
			return ErrForbidden
		}
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
