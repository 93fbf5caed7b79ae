package echofield

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/eringen/echofield/content"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDuplicateSlug is returned when a canonical or localized slug is already
// used by another post or category.
var ErrDuplicateSlug = errors.New("slug already in use")

// PostHook is notified after a post mutation has been committed.
type PostHook interface {
	PostSaved(ctx context.Context, post content.Post, previousImage string)
	PostDeleted(ctx context.Context, post content.Post)
}

// Store wraps a SQLite database holding posts and categories.
type Store struct {
	db    *sql.DB
	hooks []PostHook
	now   func() time.Time
}

// postSlugColumns maps each language to its localized slug column.
var postSlugColumns = map[content.Lang]string{
	content.English:   "slug_en",
	content.Ukrainian: "slug_uk",
}

const postColumns = `id, title, slug, slug_en, slug_uk, title_en, title_uk, content, content_en, content_uk, featured_image, published_at, created_at, updated_at`

const postOrder = ` ORDER BY published_at IS NULL, published_at DESC, created_at DESC, id DESC`

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and applies pending migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Pragmas go in the DSN so every pooled connection gets them; foreign
	// keys in particular are per-connection in SQLite.
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: time.Now}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Migrate applies the embedded migrations.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddHook registers h to run after every committed save or delete.
func (s *Store) AddHook(h PostHook) {
	s.hooks = append(s.hooks, h)
}

// Published returns posts whose publication time is at or before now, newest first.
func (s *Store) Published(ctx context.Context, now time.Time) ([]content.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE published_at IS NOT NULL AND published_at <= ?`+postOrder, now.UnixNano())
}

// ForSlug returns the published posts addressed by slug. With lang set only
// that language's slug column is matched; otherwise the canonical slug and
// every localized slug are.
func (s *Store) ForSlug(ctx context.Context, now time.Time, slug string, lang content.Lang) ([]content.Post, error) {
	where := `published_at IS NOT NULL AND published_at <= ?`
	args := []any{now.UnixNano()}
	if lang != "" {
		col, ok := postSlugColumns[lang]
		if !ok {
			return nil, fmt.Errorf("unsupported language %q", lang)
		}
		where += ` AND ` + col + ` = ?`
		args = append(args, slug)
	} else {
		or := []string{"slug = ?"}
		args = append(args, slug)
		for _, l := range content.Languages {
			or = append(or, postSlugColumns[l]+" = ?")
			args = append(args, slug)
		}
		where += ` AND (` + strings.Join(or, " OR ") + `)`
	}
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE `+where+postOrder, args...)
}

// ListAllPosts returns every post, drafts and scheduled ones included.
func (s *Store) ListAllPosts(ctx context.Context) ([]content.Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts`+postOrder)
}

// GetPost returns a post by id regardless of publication.
func (s *Store) GetPost(ctx context.Context, id int64) (content.Post, error) {
	posts, err := s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	if err != nil {
		return content.Post{}, err
	}
	if len(posts) == 0 {
		return content.Post{}, content.ErrNotFound
	}
	return posts[0], nil
}

// SavePost inserts p when p.ID is zero and updates it otherwise. Category
// membership is replaced by p.Categories. Hooks run after commit with the
// featured image the post had before the save.
func (s *Store) SavePost(ctx context.Context, p *content.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.now().UTC()
	var publishedAt sql.NullInt64
	if p.PublishedAt != nil {
		publishedAt = sql.NullInt64{Int64: p.PublishedAt.UnixNano(), Valid: true}
	}
	en, uk := p.Localized[content.English], p.Localized[content.Ukrainian]

	var previousImage string
	if p.ID == 0 {
		res, err := tx.ExecContext(ctx, `INSERT INTO posts (title, slug, slug_en, slug_uk, title_en, title_uk, content, content_en, content_uk, featured_image, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Slug, nullString(en.Slug), nullString(uk.Slug), en.Title, uk.Title,
			p.Content, en.Content, uk.Content, p.FeaturedImage, publishedAt, now.UnixNano(), now.UnixNano())
		if err != nil {
			return translateWriteErr(err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		p.CreatedAt = now
	} else {
		err := tx.QueryRowContext(ctx, `SELECT featured_image FROM posts WHERE id = ?`, p.ID).Scan(&previousImage)
		if errors.Is(err, sql.ErrNoRows) {
			return content.ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE posts SET title = ?, slug = ?, slug_en = ?, slug_uk = ?, title_en = ?, title_uk = ?,
content = ?, content_en = ?, content_uk = ?, featured_image = ?, published_at = ?, updated_at = ? WHERE id = ?`,
			p.Title, p.Slug, nullString(en.Slug), nullString(uk.Slug), en.Title, uk.Title,
			p.Content, en.Content, uk.Content, p.FeaturedImage, publishedAt, now.UnixNano(), p.ID)
		if err != nil {
			return translateWriteErr(err)
		}
	}
	p.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = ?`, p.ID); err != nil {
		return err
	}
	// Ids of categories deleted since the form was rendered are dropped.
	linked := p.Categories[:0:0]
	for _, c := range p.Categories {
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO post_categories (post_id, category_id)
SELECT ?, id FROM categories WHERE id = ?`, p.ID, c.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			linked = append(linked, c)
		}
	}
	p.Categories = linked
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, h := range s.hooks {
		h.PostSaved(ctx, *p, previousImage)
	}
	return nil
}

// DeletePost removes a post by id and runs the delete hooks.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return err
	}
	for _, h := range s.hooks {
		h.PostDeleted(ctx, post)
	}
	return nil
}

// SlugTaken reports whether slug is used as a canonical or localized slug
// by any post other than exceptID.
func (s *Store) SlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE id != ? AND (slug = ? OR slug_en = ? OR slug_uk = ?)`,
		exceptID, slug, slug, slug).Scan(&n)
	return n > 0, err
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func scanPost(rows *sql.Rows) (content.Post, error) {
	var (
		p                    content.Post
		slugEN, slugUK       sql.NullString
		titleEN, titleUK     string
		contentEN, contentUK string
		publishedAt          sql.NullInt64
		createdAt, updatedAt int64
	)
	err := rows.Scan(&p.ID, &p.Title, &p.Slug, &slugEN, &slugUK, &titleEN, &titleUK,
		&p.Content, &contentEN, &contentUK, &p.FeaturedImage, &publishedAt, &createdAt, &updatedAt)
	if err != nil {
		return content.Post{}, err
	}
	if publishedAt.Valid {
		t := time.Unix(0, publishedAt.Int64).UTC()
		p.PublishedAt = &t
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	p.SetLocalized(content.English, content.Localized{Title: titleEN, Content: contentEN, Slug: slugEN.String})
	p.SetLocalized(content.Ukrainian, content.Localized{Title: titleUK, Content: contentUK, Slug: slugUK.String})
	return p, nil
}

func (s *Store) attachCategories(ctx context.Context, posts []content.Post) error {
	if len(posts) == 0 {
		return nil
	}
	index := make(map[int64]int, len(posts))
	placeholders := make([]string, len(posts))
	args := make([]any, len(posts))
	for i, p := range posts {
		index[p.ID] = i
		placeholders[i] = "?"
		args[i] = p.ID
	}
	rows, err := s.db.QueryContext(ctx, `SELECT pc.post_id, `+categoryColumns("c.")+`
FROM post_categories pc JOIN categories c ON c.id = pc.category_id
WHERE pc.post_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY c.name`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var postID int64
		c, err := scanCategory(rows, &postID)
		if err != nil {
			return err
		}
		i := index[postID]
		posts[i].Categories = append(posts[i].Categories, c)
	}
	return rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func translateWriteErr(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicateSlug, err)
	}
	return err
}
