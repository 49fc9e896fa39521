package blogservice

import (
	"context"
	"database/sql"

	"github.com/plokkeri/plok/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db)}
}

type CreateBlogRequest struct {
	Name        string
	Title       string
	Description string
	Language    string
	CreatedBy   int
}

// CreateBlog creates a new blog owned by the requesting user. A name
// collision comes back as ErrDuplicateName so the handler can re-render the
// form instead of erroring.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateSlug(v, req.Name, "name")
	validateTitle(v, req.Title)
	validateInt(v, req.CreatedBy, "created_by")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b := &Blog{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Language:    req.Language,
		CreatedBy:   req.CreatedBy,
	}

	if err := s.m.insertBlog(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *BlogService) GetBlogByName(ctx context.Context, name string) (*Blog, error) {
	v := common.NewValidator()
	v.Check(name != "", "name", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogByName(ctx, name)
}

// GetBlogs returns every blog, name ascending.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getBlogs(ctx)
}

// UpdateBlog writes the blog's title and description. Only the owner may
// update; everyone else gets ErrNotOwner.
func (s *BlogService) UpdateBlog(ctx context.Context, blog *Blog, actorID int) error {
	if !blog.CanEdit(actorID) {
		return ErrNotOwner
	}

	v := common.NewValidator()
	validateTitle(v, blog.Title)
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.updateBlog(ctx, blog, actorID)
}

// DeleteBlog removes a blog. It fails with ErrNotOwner for anyone but the
// creator and with ErrBlogNotEmpty while the blog still owns articles.
func (s *BlogService) DeleteBlog(ctx context.Context, name string, actorID int) error {
	v := common.NewValidator()
	v.Check(name != "", "name", "must be provided")
	validateInt(v, actorID, "actor_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteBlog(ctx, name, actorID)
}

type CreateArticleRequest struct {
	BlogID      int
	Name        string
	Title       string
	Description string
	Text        string
	Language    string
	Format      string
	CreatedBy   int
}

// CreateArticle creates an article under a blog. Article names are unique
// across all blogs, matching the unique index.
func (s *BlogService) CreateArticle(ctx context.Context, req *CreateArticleRequest) (*Article, error) {
	v := common.NewValidator()
	validateSlug(v, req.Name, "name")
	validateTitle(v, req.Title)
	validateFormat(v, req.Format)
	validateInt(v, req.BlogID, "blog_id")
	validateInt(v, req.CreatedBy, "created_by")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	a := &Article{
		BlogID:      req.BlogID,
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Text:        req.Text,
		Language:    req.Language,
		Format:      req.Format,
		CreatedBy:   req.CreatedBy,
	}

	if err := s.m.insertArticle(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *BlogService) GetArticleByName(ctx context.Context, blogID int, name string) (*Article, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	v.Check(name != "", "name", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getArticleByName(ctx, blogID, name)
}

// GetArticles returns all articles, newest first.
func (s *BlogService) GetArticles(ctx context.Context) ([]Article, error) {
	return s.m.getArticles(ctx)
}

func (s *BlogService) GetArticlesByBlog(ctx context.Context, blogID int) ([]Article, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getArticlesByBlog(ctx, blogID)
}

// UpdateArticle writes title, description, text and format. Owner only.
func (s *BlogService) UpdateArticle(ctx context.Context, article *Article, actorID int) error {
	if !article.CanEdit(actorID) {
		return ErrNotOwner
	}

	v := common.NewValidator()
	validateTitle(v, article.Title)
	validateFormat(v, article.Format)
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.updateArticle(ctx, article, actorID)
}

// DeleteArticle removes an article and, by cascade, its comments. Owner
// only; a non-owner gets ErrNotOwner.
func (s *BlogService) DeleteArticle(ctx context.Context, id, actorID int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, actorID, "actor_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteArticle(ctx, id, actorID)
}

type CreateCommentRequest struct {
	ArticleID int
	ParentID  *int
	Text      string
	CreatedBy int
}

// CreateComment attaches a comment to an article, optionally as a reply to
// another comment. The parent must belong to the same article.
func (s *BlogService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateCommentText(v, req.Text)
	validateInt(v, req.ArticleID, "article_id")
	validateInt(v, req.CreatedBy, "created_by")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if req.ParentID != nil {
		parent, err := s.m.getCommentByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != req.ArticleID {
			return nil, ErrRecordNotFound
		}
	}

	c := &Comment{
		ArticleID: req.ArticleID,
		ParentID:  req.ParentID,
		Text:      req.Text,
		CreatedBy: req.CreatedBy,
	}

	if err := s.m.insertComment(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *BlogService) GetCommentByID(ctx context.Context, id int) (*Comment, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getCommentByID(ctx, id)
}

// GetCommentsByArticle returns an article's comments, oldest first.
func (s *BlogService) GetCommentsByArticle(ctx context.Context, articleID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, articleID, "article_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getCommentsByArticle(ctx, articleID)
}

func (s *BlogService) UpdateComment(ctx context.Context, comment *Comment, actorID int) error {
	if !comment.CanEdit(actorID) {
		return ErrNotOwner
	}

	v := common.NewValidator()
	validateCommentText(v, comment.Text)
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.updateComment(ctx, comment, actorID)
}

// DeleteComment removes a comment and, by cascade, its replies. Owner only.
func (s *BlogService) DeleteComment(ctx context.Context, id, actorID int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, actorID, "actor_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteComment(ctx, id, actorID)
}
