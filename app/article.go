package main

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/plokkeri/plok/internal/blogservice"
	"github.com/plokkeri/plok/internal/common"
)

type articleForm struct {
	Name        string
	Title       string
	Description string
	Text        string
	Format      string
	Errors      map[string]string
}

type articleFormPage struct {
	basePage
	Blog    *blogservice.Blog
	Article *blogservice.Article
	Form    articleForm
	Formats []string
}

type articleDetailPage struct {
	basePage
	Blog     *blogservice.Blog
	Article  *blogservice.Article
	Content  template.HTML
	Comments []blogservice.Comment
	CanEdit  bool
	ActorID  int
}

type articleDeletePage struct {
	basePage
	Blog    *blogservice.Blog
	Article *blogservice.Article
}

func (app *application) articleDetailHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	content, err := blogservice.RenderBody(article)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	comments, err := app.blogService.GetCommentsByArticle(r.Context(), article.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	data := articleDetailPage{
		basePage: app.newBasePage(r, article.Title),
		Blog:     blog,
		Article:  article,
		Content:  content,
		Comments: comments,
		CanEdit:  article.CanEdit(user.ID),
		ActorID:  user.ID,
	}

	app.render(w, r, http.StatusOK, "article_detail.html", data)
}

func (app *application) articleCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return
	}

	form := articleForm{Format: app.config.DefaultFormat}
	app.renderArticleForm(w, r, http.StatusOK, "article_create.html", "Create Article", blog, nil, form)
}

func (app *application) articleCreateHandler(w http.ResponseWriter, r *http.Request) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return
	}

	form := articleForm{
		Name:        r.PostFormValue("name"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Text:        r.PostFormValue("text"),
		Format:      app.config.DefaultFormat,
	}

	req := &blogservice.CreateArticleRequest{
		BlogID:      blog.ID,
		Name:        form.Name,
		Title:       form.Title,
		Description: form.Description,
		Text:        form.Text,
		Language:    blog.Language,
		Format:      form.Format,
		CreatedBy:   app.getUserContext(r).ID,
	}

	article, err := app.blogService.CreateArticle(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrDuplicateName):
			form.Errors = map[string]string{"name": "an article with this name already exists"}
			app.renderArticleForm(w, r, http.StatusUnprocessableEntity, "article_create.html", "Create Article", blog, nil, form)
		case errors.As(err, &common.ValidationError{}):
			form.Errors = err.(common.ValidationError).Errors
			app.renderArticleForm(w, r, http.StatusUnprocessableEntity, "article_create.html", "Create Article", blog, nil, form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/blogs/"+blog.Name+"/article/"+article.Name, "")
}

func (app *application) articleUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	if !article.CanEdit(app.getUserContext(r).ID) {
		app.redirect(w, r, "/blogs/"+blog.Name+"/article/"+article.Name, "")
		return
	}

	form := articleForm{
		Name:        article.Name,
		Title:       article.Title,
		Description: article.Description,
		Text:        article.Text,
		Format:      article.Format,
	}

	app.renderArticleForm(w, r, http.StatusOK, "article_update.html", "Update Article", blog, article, form)
}

func (app *application) articleUpdateHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	user := app.getUserContext(r)
	detailURL := "/blogs/" + blog.Name + "/article/" + article.Name

	if !article.CanEdit(user.ID) {
		app.redirect(w, r, detailURL, "")
		return
	}

	article.Title = r.PostFormValue("title")
	article.Description = r.PostFormValue("description")
	article.Text = r.PostFormValue("text")
	article.Format = r.PostFormValue("format")

	err := app.blogService.UpdateArticle(r.Context(), article, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrNotOwner):
			app.redirect(w, r, detailURL, "")
		case errors.As(err, &common.ValidationError{}):
			form := articleForm{
				Name:        article.Name,
				Title:       article.Title,
				Description: article.Description,
				Text:        article.Text,
				Format:      article.Format,
				Errors:      err.(common.ValidationError).Errors,
			}
			app.renderArticleForm(w, r, http.StatusUnprocessableEntity, "article_update.html", "Update Article", blog, article, form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, detailURL, "")
}

func (app *application) articleDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	if !article.CanEdit(app.getUserContext(r).ID) {
		app.notFoundErrorResponse(w, r)
		return
	}

	data := articleDeletePage{
		basePage: app.newBasePage(r, "Delete Article"),
		Blog:     blog,
		Article:  article,
	}

	app.render(w, r, http.StatusOK, "article_delete.html", data)
}

func (app *application) articleDeleteHandler(w http.ResponseWriter, r *http.Request) {
	_, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	err := app.blogService.DeleteArticle(r.Context(), article.ID, app.getUserContext(r).ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrNotOwner):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/", "article deleted")
}

// lookupArticle resolves the :blog and :article path parameters together; an
// article name only matches within its own blog.
func (app *application) lookupArticle(w http.ResponseWriter, r *http.Request) (*blogservice.Blog, *blogservice.Article, bool) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return nil, nil, false
	}

	name := app.readParam(r, "article")

	article, err := app.blogService.GetArticleByName(r.Context(), blog.ID, name)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, nil, false
	}

	return blog, article, true
}

func (app *application) renderArticleForm(w http.ResponseWriter, r *http.Request, status int, page, title string, blog *blogservice.Blog, article *blogservice.Article, form articleForm) {
	data := articleFormPage{
		basePage: app.newBasePage(r, title),
		Blog:     blog,
		Article:  article,
		Form:     form,
		Formats:  []string{blogservice.FormatHTML, blogservice.FormatMarkdown},
	}
	app.render(w, r, status, page, data)
}
