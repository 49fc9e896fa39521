package blogservice

import (
	"context"
	"database/sql"
	"errors"
)

func (m *BlogModel) insertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (article_id, parent_id, text, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created, edited, version`

	err := m.db.QueryRowContext(ctx, query, c.ArticleID, c.ParentID, c.Text, c.CreatedBy).Scan(&c.ID, &c.Created, &c.Edited, &c.Version)
	if err != nil {
		switch {
		case ForeignKeyError(err, "comments_article_id_fkey"):
			return ErrRecordNotFound
		case ForeignKeyError(err, "comments_parent_id_fkey"):
			return ErrRecordNotFound
		case ForeignKeyError(err, "comments_created_by_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getCommentByID(ctx context.Context, id int) (*Comment, error) {
	query := `
		SELECT c.id, c.article_id, c.parent_id, c.text, c.created, c.created_by, c.edited, c.edited_by, c.version, u.username
		FROM comments c
		JOIN users u ON c.created_by = u.id
		WHERE c.id = $1`

	var c Comment
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.ArticleID, &c.ParentID, &c.Text, &c.Created, &c.CreatedBy, &c.Edited, &c.EditedBy, &c.Version, &c.CreatedByName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

// getCommentsByArticle lists a thread oldest first, the order the article
// page renders it in.
func (m *BlogModel) getCommentsByArticle(ctx context.Context, articleID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.article_id, c.parent_id, c.text, c.created, c.created_by, c.edited, c.edited_by, c.version, u.username
		FROM comments c
		JOIN users u ON c.created_by = u.id
		WHERE c.article_id = $1
		ORDER BY c.created ASC`

	rows, err := m.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.ArticleID, &c.ParentID, &c.Text, &c.Created, &c.CreatedBy, &c.Edited, &c.EditedBy, &c.Version, &c.CreatedByName)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *BlogModel) updateComment(ctx context.Context, c *Comment, actorID int) error {
	query := `
		UPDATE comments
		SET text = $1, edited = now(), edited_by = $2, version = version + 1
		WHERE id = $3 AND version = $4 AND created_by = $2
		RETURNING version, edited`

	err := m.db.QueryRowContext(ctx, query, c.Text, actorID, c.ID, c.Version).Scan(&c.Version, &c.Edited)
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

// deleteComment removes one comment; replies cascade through the
// ON DELETE CASCADE on comments.parent_id.
func (m *BlogModel) deleteComment(ctx context.Context, id, actorID int) error {
	query := `
		DELETE FROM comments
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
