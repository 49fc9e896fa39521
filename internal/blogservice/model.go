package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrUserForeignKey = errors.New("user does not exist")

	// ErrNotOwner means the actor failed the ownership check. Handlers map
	// it to a not-found response so non-owners cannot probe for existence.
	ErrNotOwner = errors.New("not the owner")

	// ErrBlogNotEmpty rejects deletion of a blog that still owns articles.
	ErrBlogNotEmpty = errors.New("blog still has articles")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError reports whether err is a Postgres foreign-key violation
// on the named constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

func (m *BlogModel) insertBlog(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (name, title, description, language, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created, edited, version`

	err := m.db.QueryRowContext(ctx, query, b.Name, b.Title, b.Description, b.Language, b.CreatedBy).Scan(&b.ID, &b.Created, &b.Edited, &b.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "blogs_name_key"):
			return ErrDuplicateName
		case ForeignKeyError(err, "blogs_created_by_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getBlogByName(ctx context.Context, name string) (*Blog, error) {
	query := `
		SELECT b.id, b.name, b.title, b.description, b.language, b.created, b.created_by, b.edited, b.edited_by, b.version, u.username
		FROM blogs b
		JOIN users u ON b.created_by = u.id
		WHERE b.name = $1`

	var b Blog
	err := m.db.QueryRowContext(ctx, query, name).Scan(&b.ID, &b.Name, &b.Title, &b.Description, &b.Language, &b.Created, &b.CreatedBy, &b.Edited, &b.EditedBy, &b.Version, &b.CreatedByName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT b.id, b.name, b.title, b.description, b.language, b.created, b.created_by, b.edited, b.edited_by, b.version, u.username
		FROM blogs b
		JOIN users u ON b.created_by = u.id
		ORDER BY b.name`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		var b Blog
		err := rows.Scan(&b.ID, &b.Name, &b.Title, &b.Description, &b.Language, &b.Created, &b.CreatedBy, &b.Edited, &b.EditedBy, &b.Version, &b.CreatedByName)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// updateBlog writes title and description. The created_by guard in the
// WHERE clause backs up the handler-level ownership check.
func (m *BlogModel) updateBlog(ctx context.Context, b *Blog, actorID int) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, edited = now(), edited_by = $3, version = version + 1
		WHERE id = $4 AND version = $5 AND created_by = $3
		RETURNING version, edited`

	err := m.db.QueryRowContext(ctx, query, b.Title, b.Description, actorID, b.ID, b.Version).Scan(&b.Version, &b.Edited)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotOwner
		default:
			return err
		}
	}

	return nil
}

// deleteBlog removes the blog in a transaction: ownership and the
// zero-articles rule are checked against the same snapshot the DELETE runs
// in, so a concurrent article create either blocks the delete or misses it.
func (m *BlogModel) deleteBlog(ctx context.Context, name string, actorID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id, createdBy int
	err = tx.QueryRowContext(ctx, `SELECT id, created_by FROM blogs WHERE name = $1 FOR UPDATE`, name).Scan(&id, &createdBy)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	if createdBy != actorID {
		return ErrNotOwner
	}

	var articleCount int
	err = tx.QueryRowContext(ctx, `SELECT count(*) FROM articles WHERE blog_id = $1`, id).Scan(&articleCount)
	if err != nil {
		return err
	}

	if articleCount > 0 {
		return ErrBlogNotEmpty
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}
