package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/plokkeri/plok/internal/blogservice"
	"github.com/plokkeri/plok/internal/common"
)

type commentForm struct {
	Text     string
	ParentID *int
	Errors   map[string]string
}

type commentFormPage struct {
	basePage
	Blog    *blogservice.Blog
	Article *blogservice.Article
	Action  string
	Form    commentForm
}

func (app *application) commentCreateFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	form := commentForm{}
	if parent := r.URL.Query().Get("parent"); parent != "" {
		id, err := strconv.Atoi(parent)
		if err != nil || id < 1 {
			app.notFoundErrorResponse(w, r)
			return
		}
		form.ParentID = &id
	}

	action := "/blogs/" + blog.Name + "/article/" + article.Name + "/comment"
	app.renderCommentForm(w, r, http.StatusOK, blog, article, action, form)
}

func (app *application) commentCreateHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return
	}

	detailURL := "/blogs/" + blog.Name + "/article/" + article.Name

	form := commentForm{Text: r.PostFormValue("text")}
	if parent := r.PostFormValue("parent"); parent != "" {
		id, err := strconv.Atoi(parent)
		if err != nil || id < 1 {
			app.notFoundErrorResponse(w, r)
			return
		}
		form.ParentID = &id
	}

	req := &blogservice.CreateCommentRequest{
		ArticleID: article.ID,
		ParentID:  form.ParentID,
		Text:      form.Text,
		CreatedBy: app.getUserContext(r).ID,
	}

	_, err := app.blogService.CreateComment(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			// the parent comment is gone
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			form.Errors = err.(common.ValidationError).Errors
			app.renderCommentForm(w, r, http.StatusUnprocessableEntity, blog, article, detailURL+"/comment", form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, detailURL, "")
}

func (app *application) commentEditFormHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, comment, ok := app.lookupComment(w, r)
	if !ok {
		return
	}

	detailURL := "/blogs/" + blog.Name + "/article/" + article.Name

	if !comment.CanEdit(app.getUserContext(r).ID) {
		app.redirect(w, r, detailURL, "")
		return
	}

	form := commentForm{Text: comment.Text, ParentID: comment.ParentID}
	action := detailURL + "/comment/" + strconv.Itoa(comment.ID) + "/edit"
	app.renderCommentForm(w, r, http.StatusOK, blog, article, action, form)
}

func (app *application) commentEditHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, comment, ok := app.lookupComment(w, r)
	if !ok {
		return
	}

	user := app.getUserContext(r)
	detailURL := "/blogs/" + blog.Name + "/article/" + article.Name

	if !comment.CanEdit(user.ID) {
		app.redirect(w, r, detailURL, "")
		return
	}

	comment.Text = r.PostFormValue("text")

	err := app.blogService.UpdateComment(r.Context(), comment, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrNotOwner):
			app.redirect(w, r, detailURL, "")
		case errors.As(err, &common.ValidationError{}):
			form := commentForm{
				Text:     comment.Text,
				ParentID: comment.ParentID,
				Errors:   err.(common.ValidationError).Errors,
			}
			action := detailURL + "/comment/" + strconv.Itoa(comment.ID) + "/edit"
			app.renderCommentForm(w, r, http.StatusUnprocessableEntity, blog, article, action, form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, detailURL, "")
}

func (app *application) commentDeleteHandler(w http.ResponseWriter, r *http.Request) {
	blog, article, comment, ok := app.lookupComment(w, r)
	if !ok {
		return
	}

	err := app.blogService.DeleteComment(r.Context(), comment.ID, app.getUserContext(r).ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrNotOwner):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/blogs/"+blog.Name+"/article/"+article.Name, "")
}

// lookupComment resolves the :id path parameter under an article. A comment
// id that belongs to a different article is treated as missing.
func (app *application) lookupComment(w http.ResponseWriter, r *http.Request) (*blogservice.Blog, *blogservice.Article, *blogservice.Comment, bool) {
	blog, article, ok := app.lookupArticle(w, r)
	if !ok {
		return nil, nil, nil, false
	}

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return nil, nil, nil, false
	}

	comment, err := app.blogService.GetCommentByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, nil, nil, false
	}

	if comment.ArticleID != article.ID {
		app.notFoundErrorResponse(w, r)
		return nil, nil, nil, false
	}

	return blog, article, comment, true
}

func (app *application) renderCommentForm(w http.ResponseWriter, r *http.Request, status int, blog *blogservice.Blog, article *blogservice.Article, action string, form commentForm) {
	data := commentFormPage{
		basePage: app.newBasePage(r, "Comment"),
		Blog:     blog,
		Article:  article,
		Action:   action,
		Form:     form,
	}
	app.render(w, r, status, "comment_form.html", data)
}
