package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/iliyamo/conduit/internal/model"
)

// ArticleRepo provides CRUD operations for articles, their tags and their
// favorite edges.  Every projection is viewer-dependent: the favorited and
// author.following flags are computed against the id of the user reading
// the article (zero for anonymous viewers).
type ArticleRepo struct{ DB *sql.DB }

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{DB: db} }

// articleQ is the shared projection joining the author row and the
// viewer-dependent flags.  Queries append their own WHERE/ORDER clauses.
// Bind order: viewer id (favorited), viewer id (following), then the
// clause's own parameters.
const articleQ = `
	SELECT a.id, a.slug, a.title, a.description, a.body, a.created_at, a.updated_at,
	       u.username, u.bio, u.image,
	       EXISTS(SELECT 1 FROM favorites f WHERE f.article_id = a.id AND f.user_id = ?) AS favorited,
	       (SELECT COUNT(*) FROM favorites f WHERE f.article_id = a.id) AS favorites_count,
	       EXISTS(SELECT 1 FROM follows w WHERE w.followed_id = a.user_id AND w.follower_id = ?) AS following
	FROM articles a
	JOIN users u ON u.id = a.user_id`

type rowScanner interface{ Scan(dest ...any) error }

func scanArticle(row rowScanner) (uint64, model.Article, error) {
	var id uint64
	var art model.Article
	var image sql.NullString
	err := row.Scan(&id, &art.Slug, &art.Title, &art.Description, &art.Body,
		&art.CreatedAt, &art.UpdatedAt,
		&art.Author.Username, &art.Author.Bio, &image,
		&art.Favorited, &art.FavoritesCount, &art.Author.Following)
	if err != nil {
		return 0, art, err
	}
	if image.Valid {
		img := image.String
		art.Author.Image = &img
	}
	art.TagList = []string{}
	return id, art, nil
}

// loadTags fetches the tag lists for the given article ids in one query and
// returns them keyed by article id.  Tags come back sorted.
func loadTags(ctx context.Context, q dbtx, ids []uint64) (map[uint64][]string, error) {
	if len(ids) == 0 {
		return map[uint64][]string{}, nil
	}
	args := make([]any, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	rows, err := q.QueryContext(ctx,
		`SELECT article_id, tag FROM article_tags
		 WHERE article_id IN (`+strings.Join(placeholders, ",")+`)
		 ORDER BY article_id, tag`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make(map[uint64][]string, len(ids))
	for rows.Next() {
		var id uint64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		tags[id] = append(tags[id], tag)
	}
	return tags, rows.Err()
}

// getByID loads one article projection plus its tags via q, which may be a
// transaction so create/update can read back their result before commit.
func (r *ArticleRepo) getByID(ctx context.Context, q dbtx, viewerID, articleID uint64) (model.Article, error) {
	id, art, err := scanArticle(q.QueryRowContext(ctx, articleQ+" WHERE a.id = ?", viewerID, viewerID, articleID))
	if err == sql.ErrNoRows {
		return art, ErrNotFound
	}
	if err != nil {
		return art, err
	}
	tags, err := loadTags(ctx, q, []uint64{id})
	if err != nil {
		return art, err
	}
	if t := tags[id]; t != nil {
		art.TagList = t
	}
	return art, nil
}

// Create inserts an article with its tags and returns the full projection.
// A slug collision with a concurrently-created article surfaces as a
// *ValidationError on the slug field.
func (r *ArticleRepo) Create(ctx context.Context, authorID uint64, slug, title, description, body string, tags []string) (model.Article, error) {
	tags = normalizeTags(tags)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Article{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO articles (user_id, slug, title, description, body) VALUES (?,?,?,?,?)",
		authorID, slug, title, description, body)
	if err != nil {
		return model.Article{}, mapConstraint(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Article{}, err
	}
	articleID := uint64(id)

	if len(tags) > 0 {
		query := "INSERT INTO article_tags (article_id, tag) VALUES "
		args := make([]any, 0, len(tags)*2)
		for i, t := range tags {
			if i > 0 {
				query += ","
			}
			query += "(?,?)"
			args = append(args, articleID, t)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return model.Article{}, err
		}
	}

	art, err := r.getByID(ctx, tx, authorID, articleID)
	if err != nil {
		return model.Article{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Article{}, err
	}
	committed = true
	return art, nil
}

// GetBySlug returns one article as seen by viewerID (zero for anonymous).
func (r *ArticleRepo) GetBySlug(ctx context.Context, viewerID uint64, slug string) (model.Article, error) {
	id, art, err := scanArticle(r.DB.QueryRowContext(ctx, articleQ+" WHERE a.slug = ?", viewerID, viewerID, slug))
	if err == sql.ErrNoRows {
		return art, ErrNotFound
	}
	if err != nil {
		return art, err
	}
	tags, err := loadTags(ctx, r.DB, []uint64{id})
	if err != nil {
		return art, err
	}
	if t := tags[id]; t != nil {
		art.TagList = t
	}
	return art, nil
}

// ArticlePatch carries optional replacement values for Update.  A nil field
// keeps the stored value.  Slug is derived from Title by the caller.
type ArticlePatch struct {
	Slug        *string
	Title       *string
	Description *string
	Body        *string
}

// Update edits an article owned by editorID.  The target row is locked with
// FOR UPDATE for the duration of the transaction so concurrent edits of the
// same article serialize; the ownership check runs before any write and a
// mismatch rolls the lock back untouched.  The updated projection is read
// back inside the same transaction.
func (r *ArticleRepo) Update(ctx context.Context, editorID uint64, slug string, p ArticlePatch) (model.Article, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Article{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var articleID, ownerID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id, user_id FROM articles WHERE slug = ? FOR UPDATE", slug).
		Scan(&articleID, &ownerID)
	if err == sql.ErrNoRows {
		return model.Article{}, ErrNotFound
	}
	if err != nil {
		return model.Article{}, err
	}
	if ownerID != editorID {
		return model.Article{}, ErrForbidden
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE articles SET
			slug        = COALESCE(?, slug),
			title       = COALESCE(?, title),
			description = COALESCE(?, description),
			body        = COALESCE(?, body)
		WHERE id = ?`,
		p.Slug, p.Title, p.Description, p.Body, articleID)
	if err != nil {
		return model.Article{}, mapConstraint(err)
	}

	art, err := r.getByID(ctx, tx, editorID, articleID)
	if err != nil {
		return model.Article{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Article{}, err
	}
	committed = true
	return art, nil
}

// Delete removes an article owned by callerID.  The delete is guarded by
// both slug and owner in a single statement; when nothing was deleted an
// existence check distinguishes a foreign article (ErrForbidden) from a
// missing one (ErrNotFound).
func (r *ArticleRepo) Delete(ctx context.Context, callerID uint64, slug string) error {
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

	res, err := tx.ExecContext(ctx,
		"DELETE FROM articles WHERE slug = ? AND user_id = ?", slug, callerID)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		var existed bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = ?)", slug).Scan(&existed); err != nil {
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

// Favorite records userID favoriting the article and returns the refreshed
// projection.  Favoriting twice leaves exactly one edge; a missing article
// is ErrNotFound.  Lookup and insert share one transaction.
func (r *ArticleRepo) Favorite(ctx context.Context, userID uint64, slug string) (model.Article, error) {
	return r.toggleFavorite(ctx, userID, slug, true)
}

// Unfavorite removes the favorite edge if present; removing a non-existent
// edge is a no-op.
func (r *ArticleRepo) Unfavorite(ctx context.Context, userID uint64, slug string) (model.Article, error) {
	return r.toggleFavorite(ctx, userID, slug, false)
}

func (r *ArticleRepo) toggleFavorite(ctx context.Context, userID uint64, slug string, favorite bool) (model.Article, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Article{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var articleID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM articles WHERE slug = ? LIMIT 1", slug).Scan(&articleID)
	if err == sql.ErrNoRows {
		return model.Article{}, ErrNotFound
	}
	if err != nil {
		return model.Article{}, err
	}

	if favorite {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO favorites (user_id, article_id) VALUES (?,?)
			ON DUPLICATE KEY UPDATE user_id = user_id`,
			userID, articleID)
	} else {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM favorites WHERE user_id = ? AND article_id = ?",
			userID, articleID)
	}
	if err != nil {
		return model.Article{}, err
	}

	art, err := r.getByID(ctx, tx, userID, articleID)
	if err != nil {
		return model.Article{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Article{}, err
	}
	committed = true
	return art, nil
}

// ArticleFilter narrows List results.  Empty strings disable a filter.
type ArticleFilter struct {
	Tag         string
	Author      string
	FavoritedBy string
	Limit       int64
	Offset      int64
}

// List returns recent articles, newest first, optionally filtered by tag,
// author username, or the username of a user who favorited them.
func (r *ArticleRepo) List(ctx context.Context, viewerID uint64, f ArticleFilter) ([]model.Article, error) {
	query := articleQ + `
		WHERE (? = '' OR EXISTS(SELECT 1 FROM article_tags t WHERE t.article_id = a.id AND t.tag = ?))
		  AND (? = '' OR u.username = ?)
		  AND (? = '' OR EXISTS(
			SELECT 1 FROM favorites f2 JOIN users fu ON fu.id = f2.user_id
			WHERE f2.article_id = a.id AND fu.username = ?))
		ORDER BY a.created_at DESC
		LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, query,
		viewerID, viewerID,
		f.Tag, f.Tag, f.Author, f.Author, f.FavoritedBy, f.FavoritedBy,
		f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

// Feed returns recent articles by authors the viewer follows, newest first.
func (r *ArticleRepo) Feed(ctx context.Context, viewerID uint64, limit, offset int64) ([]model.Article, error) {
	query := articleQ + `
		WHERE EXISTS(SELECT 1 FROM follows w2 WHERE w2.followed_id = a.user_id AND w2.follower_id = ?)
		ORDER BY a.created_at DESC
		LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, query, viewerID, viewerID, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

// collect drains an articleQ result set and attaches tag lists with a
// single follow-up query.
func (r *ArticleRepo) collect(ctx context.Context, rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()
	articles := make([]model.Article, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		id, art, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		articles = append(articles, art)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	tags, err := loadTags(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		if t := tags[id]; t != nil {
			articles[i].TagList = t
		}
	}
	return articles, nil
}

// Tags returns the distinct tags across all articles, sorted.
func (r *ArticleRepo) Tags(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT tag FROM article_tags ORDER BY tag")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// normalizeTags trims, drops empties and duplicates, and sorts.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
