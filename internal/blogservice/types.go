package blogservice

import (
	"database/sql"
	"time"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

type Blog struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Created     time.Time `json:"created"`
	CreatedBy   int       `json:"created_by"`
	// CreatedByName is joined in from the users table for display.
	CreatedByName string    `json:"created_by_name"`
	Edited        time.Time `json:"edited"`
	EditedBy      *int      `json:"edited_by"`
	Version       int       `json:"version"`
}

type Article struct {
	ID     int `json:"id"`
	BlogID int `json:"blog_id"`
	// BlogName is joined in from the blogs table; article URLs live under
	// the owning blog's name.
	BlogName    string `json:"blog_name"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Text holds the raw body; Format decides how it is rendered.
	Text          string    `json:"text"`
	Language      string    `json:"language"`
	Format        string    `json:"format"`
	Created       time.Time `json:"created"`
	CreatedBy     int       `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	Edited        time.Time `json:"edited"`
	EditedBy      *int      `json:"edited_by"`
	Version       int       `json:"version"`
}

type Comment struct {
	ID            int       `json:"id"`
	ArticleID     int       `json:"article_id"`
	ParentID      *int      `json:"parent_id"`
	Text          string    `json:"text"`
	Created       time.Time `json:"created"`
	CreatedBy     int       `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	Edited        time.Time `json:"edited"`
	EditedBy      *int      `json:"edited_by"`
	Version       int       `json:"version"`
}

// CanEdit is the content ownership rule: only the creator may change or
// delete a blog. Ownership never changes after creation.
func (b Blog) CanEdit(userID int) bool {
	return userID != 0 && b.CreatedBy == userID
}

func (a Article) CanEdit(userID int) bool {
	return userID != 0 && a.CreatedBy == userID
}

// Value receivers so templates can call CanEdit on ranged values.
func (c Comment) CanEdit(userID int) bool {
	return userID != 0 && c.CreatedBy == userID
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
}
