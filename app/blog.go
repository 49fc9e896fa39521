package main

import (
	"errors"
	"net/http"

	"github.com/plokkeri/plok/internal/blogservice"
	"github.com/plokkeri/plok/internal/common"
)

type blogForm struct {
	Name        string
	Title       string
	Description string
	Errors      map[string]string
}

type blogListPage struct {
	basePage
	Blogs  []blogservice.Blog
	CanAdd bool
}

type blogDetailPage struct {
	basePage
	Blog     *blogservice.Blog
	Articles []blogservice.Article
	CanEdit  bool
}

type blogFormPage struct {
	basePage
	Form blogForm
}

type blogDeletePage struct {
	basePage
	Blog *blogservice.Blog
}

type indexPage struct {
	basePage
	Articles []blogservice.Article
	CanAdd   bool
}

// indexHandler lists every article across all blogs, newest first.
func (app *application) indexHandler(w http.ResponseWriter, r *http.Request) {
	articles, err := app.blogService.GetArticles(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := indexPage{
		basePage: app.newBasePage(r, "Articles"),
		Articles: articles,
		CanAdd:   app.getUserContext(r).IsStaff,
	}

	app.render(w, r, http.StatusOK, "index.html", data)
}

func (app *application) blogListHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.blogService.GetBlogs(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := blogListPage{
		basePage: app.newBasePage(r, "Blogs"),
		Blogs:    blogs,
		CanAdd:   app.getUserContext(r).IsStaff,
	}

	app.render(w, r, http.StatusOK, "blog_list.html", data)
}

func (app *application) blogDetailHandler(w http.ResponseWriter, r *http.Request) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return
	}

	articles, err := app.blogService.GetArticlesByBlog(r.Context(), blog.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := blogDetailPage{
		basePage: app.newBasePage(r, blog.Title),
		Blog:     blog,
		Articles: articles,
		CanEdit:  blog.CanEdit(app.getUserContext(r).ID),
	}

	app.render(w, r, http.StatusOK, "blog_detail.html", data)
}

func (app *application) blogCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	data := blogFormPage{basePage: app.newBasePage(r, "Create Blog")}
	app.render(w, r, http.StatusOK, "blog_create.html", data)
}

func (app *application) blogCreateHandler(w http.ResponseWriter, r *http.Request) {
	form := blogForm{
		Name:        r.PostFormValue("name"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}

	req := &blogservice.CreateBlogRequest{
		Name:        form.Name,
		Title:       form.Title,
		Description: form.Description,
		Language:    app.config.DefaultLocale(),
		CreatedBy:   app.getUserContext(r).ID,
	}

	blog, err := app.blogService.CreateBlog(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrDuplicateName):
			form.Errors = map[string]string{"name": "a blog with this name already exists"}
			app.renderBlogForm(w, r, "blog_create.html", "Create Blog", form)
		case errors.As(err, &common.ValidationError{}):
			form.Errors = err.(common.ValidationError).Errors
			app.renderBlogForm(w, r, "blog_create.html", "Create Blog", form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/blogs/"+blog.Name, "")
}

func (app *application) blogUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return
	}

	// Not the owner: quietly bounce back to the blog instead of erroring.
	if !blog.CanEdit(app.getUserContext(r).ID) {
		app.redirect(w, r, "/blogs/"+blog.Name, "")
		return
	}

	form := blogForm{
		Name:        blog.Name,
		Title:       blog.Title,
		Description: blog.Description,
	}

	app.renderBlogFormStatus(w, r, http.StatusOK, "blog_update.html", "Update Blog", form)
}

func (app *application) blogUpdateHandler(w http.ResponseWriter, r *http.Request) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return
	}

	user := app.getUserContext(r)
	if !blog.CanEdit(user.ID) {
		app.redirect(w, r, "/blogs/"+blog.Name, "")
		return
	}

	blog.Title = r.PostFormValue("title")
	blog.Description = r.PostFormValue("description")

	err := app.blogService.UpdateBlog(r.Context(), blog, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrNotOwner):
			app.redirect(w, r, "/blogs/"+blog.Name, "")
		case errors.As(err, &common.ValidationError{}):
			form := blogForm{
				Name:        blog.Name,
				Title:       blog.Title,
				Description: blog.Description,
				Errors:      err.(common.ValidationError).Errors,
			}
			app.renderBlogForm(w, r, "blog_update.html", "Update Blog", form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/blogs/"+blog.Name, "")
}

func (app *application) blogDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, ok := app.lookupBlog(w, r)
	if !ok {
		return
	}

	// The confirm page only exists for the owner of an empty blog; anybody
	// else cannot tell it apart from a missing page.
	if !blog.CanEdit(app.getUserContext(r).ID) {
		app.notFoundErrorResponse(w, r)
		return
	}

	articles, err := app.blogService.GetArticlesByBlog(r.Context(), blog.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if len(articles) > 0 {
		app.notFoundErrorResponse(w, r)
		return
	}

	data := blogDeletePage{
		basePage: app.newBasePage(r, "Delete Blog"),
		Blog:     blog,
	}

	app.render(w, r, http.StatusOK, "blog_delete.html", data)
}

func (app *application) blogDeleteHandler(w http.ResponseWriter, r *http.Request) {
	name := app.readParam(r, "blog")

	err := app.blogService.DeleteBlog(r.Context(), name, app.getUserContext(r).ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound),
			errors.Is(err, blogservice.ErrNotOwner),
			errors.Is(err, blogservice.ErrBlogNotEmpty):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/", "blog deleted")
}

// lookupBlog resolves the :blog path parameter. On failure it has already
// written the 404 and returns ok=false.
func (app *application) lookupBlog(w http.ResponseWriter, r *http.Request) (*blogservice.Blog, bool) {
	name := app.readParam(r, "blog")

	blog, err := app.blogService.GetBlogByName(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	return blog, true
}

func (app *application) renderBlogForm(w http.ResponseWriter, r *http.Request, page, title string, form blogForm) {
	app.renderBlogFormStatus(w, r, http.StatusUnprocessableEntity, page, title, form)
}

func (app *application) renderBlogFormStatus(w http.ResponseWriter, r *http.Request, status int, page, title string, form blogForm) {
	data := blogFormPage{
		basePage: app.newBasePage(r, title),
		Form:     form,
	}
	app.render(w, r, status, page, data)
}
