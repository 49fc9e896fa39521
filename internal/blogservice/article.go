package blogservice

import (
	"context"
	"database/sql"
	"errors"
)

func (m *BlogModel) insertArticle(ctx context.Context, a *Article) error {
	query := `
		INSERT INTO articles (blog_id, name, title, description, text, language, format, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created, edited, version`

	args := []any{a.BlogID, a.Name, a.Title, a.Description, a.Text, a.Language, a.Format, a.CreatedBy}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Created, &a.Edited, &a.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "articles_name_key"):
			return ErrDuplicateName
		case ForeignKeyError(err, "articles_blog_id_fkey"):
			return ErrRecordNotFound
		case ForeignKeyError(err, "articles_created_by_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getArticleByName(ctx context.Context, blogID int, name string) (*Article, error) {
	query := `
		SELECT a.id, a.blog_id, b.name, a.name, a.title, a.description, a.text, a.language, a.format, a.created, a.created_by, a.edited, a.edited_by, a.version, u.username
		FROM articles a
		JOIN blogs b ON a.blog_id = b.id
		JOIN users u ON a.created_by = u.id
		WHERE a.blog_id = $1 AND a.name = $2`

	var a Article
	err := m.db.QueryRowContext(ctx, query, blogID, name).Scan(&a.ID, &a.BlogID, &a.BlogName, &a.Name, &a.Title, &a.Description, &a.Text, &a.Language, &a.Format, &a.Created, &a.CreatedBy, &a.Edited, &a.EditedBy, &a.Version, &a.CreatedByName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &a, nil
}

func (m *BlogModel) scanArticles(rows *sql.Rows) ([]Article, error) {
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(&a.ID, &a.BlogID, &a.BlogName, &a.Name, &a.Title, &a.Description, &a.Text, &a.Language, &a.Format, &a.Created, &a.CreatedBy, &a.Edited, &a.EditedBy, &a.Version, &a.CreatedByName)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

// getArticles returns every article, newest first. This is the index page.
func (m *BlogModel) getArticles(ctx context.Context) ([]Article, error) {
	query := `
		SELECT a.id, a.blog_id, b.name, a.name, a.title, a.description, a.text, a.language, a.format, a.created, a.created_by, a.edited, a.edited_by, a.version, u.username
		FROM articles a
		JOIN blogs b ON a.blog_id = b.id
		JOIN users u ON a.created_by = u.id
		ORDER BY a.created DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return m.scanArticles(rows)
}

func (m *BlogModel) getArticlesByBlog(ctx context.Context, blogID int) ([]Article, error) {
	query := `
		SELECT a.id, a.blog_id, b.name, a.name, a.title, a.description, a.text, a.language, a.format, a.created, a.created_by, a.edited, a.edited_by, a.version, u.username
		FROM articles a
		JOIN blogs b ON a.blog_id = b.id
		JOIN users u ON a.created_by = u.id
		WHERE a.blog_id = $1
		ORDER BY a.created DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}

	return m.scanArticles(rows)
}

func (m *BlogModel) updateArticle(ctx context.Context, a *Article, actorID int) error {
	query := `
		UPDATE articles
		SET title = $1, description = $2, text = $3, format = $4, edited = now(), edited_by = $5, version = version + 1
		WHERE id = $6 AND version = $7 AND created_by = $5
		RETURNING version, edited`

	err := m.db.QueryRowContext(ctx, query, a.Title, a.Description, a.Text, a.Format, actorID, a.ID, a.Version).Scan(&a.Version, &a.Edited)
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

// deleteArticle is a single statement; the comments go with it through the
// ON DELETE CASCADE on comments.article_id.
func (m *BlogModel) deleteArticle(ctx context.Context, id, actorID int) error {
	query := `
		DELETE FROM articles
		WHERE id = $1 AND created_by = $2`

	res, err := m.db.ExecContext(ctx, query, id, actorID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotOwner
	}

	return nil
}
