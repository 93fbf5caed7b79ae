package echofield

import (
	"context"
	"database/sql"
	"strings"

	"github.com/eringen/echofield/content"
)

var categoryFields = []string{"id", "name", "slug", "name_en", "name_uk", "slug_en", "slug_uk"}

func categoryColumns(prefix string) string {
	cols := make([]string, len(categoryFields))
	for i, f := range categoryFields {
		cols[i] = prefix + f
	}
	return strings.Join(cols, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

// scanCategory scans a category row; leading holds destinations for any
// columns selected before the category columns.
func scanCategory(row scanner, leading ...any) (content.Category, error) {
	var (
		c              content.Category
		nameEN, nameUK string
		slugEN, slugUK sql.NullString
	)
	dest := append(leading, &c.ID, &c.Name, &c.Slug, &nameEN, &nameUK, &slugEN, &slugUK)
	if err := row.Scan(dest...); err != nil {
		return content.Category{}, err
	}
	c.Names = map[content.Lang]string{content.English: nameEN, content.Ukrainian: nameUK}
	c.Slugs = map[content.Lang]string{content.English: slugEN.String, content.Ukrainian: slugUK.String}
	return c, nil
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]content.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns("")+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []content.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// SaveCategory inserts c when c.ID is zero and updates it otherwise.
func (s *Store) SaveCategory(ctx context.Context, c *content.Category) error {
	now := s.now().UTC().UnixNano()
	nameEN, nameUK := c.Names[content.English], c.Names[content.Ukrainian]
	slugEN, slugUK := c.Slugs[content.English], c.Slugs[content.Ukrainian]
	if c.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name, slug, name_en, name_uk, slug_en, slug_uk, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, c.Name, c.Slug, nameEN, nameUK, nullString(slugEN), nullString(slugUK), now, now)
		if err != nil {
			return translateWriteErr(err)
		}
		c.ID, err = res.LastInsertId()
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = ?, slug = ?, name_en = ?, name_uk = ?, slug_en = ?, slug_uk = ?, updated_at = ?
WHERE id = ?`, c.Name, c.Slug, nameEN, nameUK, nullString(slugEN), nullString(slugUK), now, c.ID)
	if err != nil {
		return translateWriteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category; post membership rows cascade.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}
