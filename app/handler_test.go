package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, headers, body := ts.get(t, "/healthcheck")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Contains(t, body, `"status":"available"`)
}

func TestBlogHandlers(t *testing.T) {
	app, db := newTestApplication(t)

	createTestUser(t, db, "alice", false)
	createTestUser(t, db, "bob", false)

	tsAlice := newTestServer(t, app.routes())
	tsAlice.login(t, "alice")
	tsBob := newTestServer(t, app.routes())
	tsBob.login(t, "bob")
	tsAnon := newTestServer(t, app.routes())

	t.Run("anonymous user is sent to login", func(t *testing.T) {
		code, headers, _ := tsAnon.get(t, "/create")
		assertRedirect(t, code, headers, "/login")
	})

	t.Run("create blog", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "alice-blog")
		form.Set("title", "Alice's Blog")
		form.Set("description", "thoughts and notes")

		code, headers, _ := tsAlice.postForm(t, "/create", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog")

		code, _, body := tsAnon.get(t, "/blogs/alice-blog")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Alice&#39;s Blog")
	})

	t.Run("duplicate name re-renders the form", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "alice-blog")
		form.Set("title", "Bob's Blog")

		code, _, body := tsBob.postForm(t, "/create", form)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "a blog with this name already exists")
		assert.Contains(t, body, "alice-blog")
		assert.Equal(t, 1, countRows(t, db, "blogs", ""))
	})

	t.Run("validation failure re-renders the form", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "not a slug!")
		form.Set("title", "Whatever")

		code, _, _ := tsBob.postForm(t, "/create", form)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, 1, countRows(t, db, "blogs", ""))
	})

	t.Run("non-owner update silently redirects", func(t *testing.T) {
		form := url.Values{}
		form.Set("title", "Hijacked")

		code, headers, _ := tsBob.postForm(t, "/blogs/alice-blog/update", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog")

		assert.Equal(t, 0, countRows(t, db, "blogs", "title = $1", "Hijacked"))
	})

	t.Run("owner update", func(t *testing.T) {
		form := url.Values{}
		form.Set("title", "Alice Writes")
		form.Set("description", "new description")

		code, headers, _ := tsAlice.postForm(t, "/blogs/alice-blog/update", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog")

		_, _, body := tsAnon.get(t, "/blogs/alice-blog")
		assert.Contains(t, body, "Alice Writes")
	})

	t.Run("non-owner delete is not found", func(t *testing.T) {
		code, _, _ := tsBob.postForm(t, "/blogs/alice-blog/delete", url.Values{})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, 1, countRows(t, db, "blogs", ""))
	})

	t.Run("delete is refused while the blog has articles", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "first-post")
		form.Set("title", "First Post")
		form.Set("text", "hello")

		code, headers, _ := tsAlice.postForm(t, "/blogs/alice-blog/create_article", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/first-post")

		code, _, _ = tsAlice.postForm(t, "/blogs/alice-blog/delete", url.Values{})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, 1, countRows(t, db, "blogs", ""))
	})

	t.Run("non-owner article delete is not found", func(t *testing.T) {
		code, _, _ := tsBob.postForm(t, "/blogs/alice-blog/article/first-post/delete", url.Values{})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, 1, countRows(t, db, "articles", ""))
	})

	t.Run("owner empties and deletes the blog", func(t *testing.T) {
		code, headers, _ := tsAlice.postForm(t, "/blogs/alice-blog/article/first-post/delete", url.Values{})
		assertRedirect(t, code, headers, "/")
		assert.Equal(t, 0, countRows(t, db, "articles", ""))

		code, headers, _ = tsAlice.postForm(t, "/blogs/alice-blog/delete", url.Values{})
		assertRedirect(t, code, headers, "/")
		assert.Equal(t, 0, countRows(t, db, "blogs", ""))

		code, _, _ = tsAnon.get(t, "/blogs/alice-blog")
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestArticleAndCommentHandlers(t *testing.T) {
	app, db := newTestApplication(t)

	createTestUser(t, db, "alice", false)
	createTestUser(t, db, "bob", false)

	tsAlice := newTestServer(t, app.routes())
	tsAlice.login(t, "alice")
	tsBob := newTestServer(t, app.routes())
	tsBob.login(t, "bob")
	tsAnon := newTestServer(t, app.routes())

	form := url.Values{}
	form.Set("name", "alice-blog")
	form.Set("title", "Alice's Blog")
	code, _, _ := tsAlice.postForm(t, "/create", form)
	require.Equal(t, http.StatusSeeOther, code)

	form = url.Values{}
	form.Set("name", "bob-blog")
	form.Set("title", "Bob's Blog")
	code, _, _ = tsBob.postForm(t, "/create", form)
	require.Equal(t, http.StatusSeeOther, code)

	t.Run("html article renders its markup verbatim", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "html-post")
		form.Set("title", "HTML Post")
		form.Set("text", "<b>bold html</b>")

		code, headers, _ := tsAlice.postForm(t, "/blogs/alice-blog/create_article", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/html-post")

		code, _, body := tsAnon.get(t, "/blogs/alice-blog/article/html-post")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "<b>bold html</b>")
	})

	t.Run("markdown article renders to html", func(t *testing.T) {
		form := url.Values{}
		form.Set("title", "HTML Post")
		form.Set("text", "**bold markdown**")
		form.Set("format", "markdown")

		code, headers, _ := tsAlice.postForm(t, "/blogs/alice-blog/article/html-post/update", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/html-post")

		_, _, body := tsAnon.get(t, "/blogs/alice-blog/article/html-post")
		assert.Contains(t, body, "<strong>bold markdown</strong>")
	})

	t.Run("article names are unique across blogs", func(t *testing.T) {
		form := url.Values{}
		form.Set("name", "html-post")
		form.Set("title", "Mine Now")
		form.Set("text", "x")

		code, _, body := tsBob.postForm(t, "/blogs/bob-blog/create_article", form)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "an article with this name already exists")
		assert.Equal(t, 1, countRows(t, db, "articles", ""))
	})

	t.Run("article name only resolves within its blog", func(t *testing.T) {
		code, _, _ := tsAnon.get(t, "/blogs/bob-blog/article/html-post")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("non-owner article update silently redirects", func(t *testing.T) {
		form := url.Values{}
		form.Set("title", "Hijacked")
		form.Set("text", "x")
		form.Set("format", "html")

		code, headers, _ := tsBob.postForm(t, "/blogs/alice-blog/article/html-post/update", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/html-post")
		assert.Equal(t, 0, countRows(t, db, "articles", "title = $1", "Hijacked"))
	})

	t.Run("anonymous comment is sent to login", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "anon says hi")

		code, headers, _ := tsAnon.postForm(t, "/blogs/alice-blog/article/html-post/comment", form)
		assertRedirect(t, code, headers, "/login")
		assert.Equal(t, 0, countRows(t, db, "comments", ""))
	})

	t.Run("comment lifecycle", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "nice post")

		code, headers, _ := tsBob.postForm(t, "/blogs/alice-blog/article/html-post/comment", form)
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/html-post")

		_, _, body := tsAnon.get(t, "/blogs/alice-blog/article/html-post")
		assert.Contains(t, body, "nice post")

		var commentID int
		err := db.QueryRow(`SELECT id FROM comments WHERE text = 'nice post'`).Scan(&commentID)
		require.NoError(t, err)

		editURL := "/blogs/alice-blog/article/html-post/comment/" + strconv.Itoa(commentID) + "/edit"
		form = url.Values{}
		form.Set("text", "nice post, edited")
		code, headers, _ = tsBob.postForm(t, editURL, form)
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/html-post")
		assert.Equal(t, 1, countRows(t, db, "comments", "text = $1", "nice post, edited"))

		// the article owner still cannot delete someone else's comment
		deleteURL := "/blogs/alice-blog/article/html-post/comment/" + strconv.Itoa(commentID) + "/delete"
		code, _, _ = tsAlice.postForm(t, deleteURL, url.Values{})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, 1, countRows(t, db, "comments", ""))

		code, headers, _ = tsBob.postForm(t, deleteURL, url.Values{})
		assertRedirect(t, code, headers, "/blogs/alice-blog/article/html-post")
		assert.Equal(t, 0, countRows(t, db, "comments", ""))
	})

	t.Run("replies thread under their parent", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "parent comment")
		code, _, _ := tsBob.postForm(t, "/blogs/alice-blog/article/html-post/comment", form)
		require.Equal(t, http.StatusSeeOther, code)

		var parentID int
		err := db.QueryRow(`SELECT id FROM comments WHERE text = 'parent comment'`).Scan(&parentID)
		require.NoError(t, err)

		form = url.Values{}
		form.Set("text", "a reply")
		form.Set("parent", strconv.Itoa(parentID))
		code, _, _ = tsAlice.postForm(t, "/blogs/alice-blog/article/html-post/comment", form)
		require.Equal(t, http.StatusSeeOther, code)

		assert.Equal(t, 1, countRows(t, db, "comments", "parent_id = $1", parentID))

		// deleting the parent cascades to the reply
		deleteURL := "/blogs/alice-blog/article/html-post/comment/" + strconv.Itoa(parentID) + "/delete"
		code, _, _ = tsBob.postForm(t, deleteURL, url.Values{})
		require.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, 0, countRows(t, db, "comments", ""))
	})
}

func TestAccountHandlers(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	t.Run("signup", func(t *testing.T) {
		form := url.Values{}
		form.Set("username", "carol")
		form.Set("email", "carol@example.com")
		form.Set("password", testPassword)

		code, headers, _ := ts.postForm(t, "/signup", form)
		assertRedirect(t, code, headers, "/login")
		assert.Equal(t, 1, countRows(t, db, "users", "username = $1", "carol"))
	})

	t.Run("duplicate username re-renders the form", func(t *testing.T) {
		form := url.Values{}
		form.Set("username", "carol")
		form.Set("email", "other@example.com")
		form.Set("password", testPassword)

		code, _, body := ts.postForm(t, "/signup", form)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "this username is already taken")
	})

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		form := url.Values{}
		form.Set("username", "carol")
		form.Set("password", "Wrong_1234!")

		code, _, body := ts.postForm(t, "/login", form)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "username or password is incorrect")
	})

	t.Run("unactivated account cannot write", func(t *testing.T) {
		ts.login(t, "carol")

		code, headers, _ := ts.get(t, "/create")
		assertRedirect(t, code, headers, "/")

		ts.logout(t)
	})

	t.Run("activation link unlocks writing", func(t *testing.T) {
		token, err := app.userService.CreateUser(context.Background(), "dave", "dave@example.com", testPassword)
		require.NoError(t, err)

		code, headers, _ := ts.get(t, "/activate?token="+*token)
		assertRedirect(t, code, headers, "/login")

		ts.login(t, "dave")
		code, _, body := ts.get(t, "/create")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Create Blog")

		ts.logout(t)
	})

	t.Run("garbage activation token is not found", func(t *testing.T) {
		code, _, _ := ts.get(t, "/activate?token="+strings.Repeat("A", 26))
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.get(t, "/activate?token=short")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("logout drops the session", func(t *testing.T) {
		ts.login(t, "dave")
		ts.logout(t)

		code, headers, _ := ts.get(t, "/users")
		assertRedirect(t, code, headers, "/login")
	})
}

func TestUserHandlers(t *testing.T) {
	app, db := newTestApplication(t)

	createTestUser(t, db, "alice", false)
	createTestUser(t, db, "bob", false)
	createTestUser(t, db, "root", true)

	tsAlice := newTestServer(t, app.routes())
	tsAlice.login(t, "alice")
	tsRoot := newTestServer(t, app.routes())
	tsRoot.login(t, "root")
	tsAnon := newTestServer(t, app.routes())

	t.Run("anonymous user list is sent to login", func(t *testing.T) {
		code, headers, _ := tsAnon.get(t, "/users")
		assertRedirect(t, code, headers, "/login")
	})

	t.Run("user list", func(t *testing.T) {
		code, _, body := tsAlice.get(t, "/users")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "alice")
		assert.Contains(t, body, "bob")
		assert.Contains(t, body, "root")
	})

	t.Run("detail hides edit controls from strangers", func(t *testing.T) {
		code, _, body := tsAlice.get(t, "/users/bob")
		assert.Equal(t, http.StatusOK, code)
		assert.NotContains(t, body, "/users/bob/edit")

		code, _, body = tsAlice.get(t, "/users/alice")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "/users/alice/edit")
	})

	t.Run("stranger edit page is not found", func(t *testing.T) {
		code, _, _ := tsAlice.get(t, "/users/bob/edit")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("self edit", func(t *testing.T) {
		form := url.Values{}
		form.Set("first_name", "Alice")
		form.Set("last_name", "Example")

		code, headers, _ := tsAlice.postForm(t, "/users/alice/edit", form)
		assertRedirect(t, code, headers, "/users/alice")
		assert.Equal(t, 1, countRows(t, db, "users", "username = $1 AND first_name = $2", "alice", "Alice"))
	})

	t.Run("staff edits anyone", func(t *testing.T) {
		form := url.Values{}
		form.Set("first_name", "Bob")
		form.Set("last_name", "Example")

		code, headers, _ := tsRoot.postForm(t, "/users/bob/edit", form)
		assertRedirect(t, code, headers, "/users/bob")
	})

	t.Run("stranger delete is not found", func(t *testing.T) {
		code, _, _ := tsAlice.postForm(t, "/users/bob/delete", url.Values{})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, 1, countRows(t, db, "users", "username = $1", "bob"))
	})

	t.Run("staff deletes anyone", func(t *testing.T) {
		code, headers, _ := tsRoot.postForm(t, "/users/bob/delete", url.Values{})
		assertRedirect(t, code, headers, "/")
		assert.Equal(t, 0, countRows(t, db, "users", "username = $1", "bob"))
	})

	t.Run("self delete ends the session", func(t *testing.T) {
		code, headers, _ := tsAlice.postForm(t, "/users/alice/delete", url.Values{})
		assertRedirect(t, code, headers, "/")
		assert.Equal(t, 0, countRows(t, db, "users", "username = $1", "alice"))

		code, headers, _ = tsAlice.get(t, "/users")
		assertRedirect(t, code, headers, "/login")
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		code, _, _ := tsRoot.get(t, "/users/nobody")
		assert.Equal(t, http.StatusNotFound, code)
	})
}
