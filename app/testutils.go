package main

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/plokkeri/plok/internal/blogservice"
	"github.com/plokkeri/plok/internal/common"
	"github.com/plokkeri/plok/internal/mailservice"
	"github.com/plokkeri/plok/internal/userservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Test_1234!"

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rabbitURI := common.TestRabbitMQ(t)
	broker, err := common.NewMessageBroker(rabbitURI)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	err = common.SetupUserExchange(broker)
	require.NoError(t, err)

	cfg := &Config{
		Port:          ":0",
		Environment:   "testing",
		Version:       "test",
		BaseURL:       "http://localhost:8080",
		Locales:       []string{"en"},
		DefaultFormat: "html",
	}

	templateCache, err := newTemplateCache()
	require.NoError(t, err)

	// The in-memory session store is enough for handler tests.
	sessionManager := scs.New()
	sessionManager.Lifetime = 12 * time.Hour
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	app := &application{
		config:         cfg,
		logger:         logger,
		templateCache:  templateCache,
		sessionManager: sessionManager,
		cache:          common.NewCache(time.Minute, time.Minute),
		userService:    userservice.NewUserService(db, broker),
		blogService:    blogservice.NewBlogService(db),
		mailService:    mailservice.NewMailService(broker, "localhost", "", "", "test@example.com", cfg.BaseURL, 1025, logger),
		broker:         broker,
	}

	return app, db
}

type testServer struct {
	*httptest.Server
	client *http.Client
}

// newTestServer wraps the handler in a server whose client keeps session
// cookies and does not follow redirects, so tests can assert on them.
func newTestServer(t *testing.T, h http.Handler) *testServer {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testServer{Server: srv, client: client}
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, string) {
	res, err := ts.client.Get(ts.URL + path)
	require.NoError(t, err)

	return readResponse(t, res)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (int, http.Header, string) {
	res, err := ts.client.PostForm(ts.URL+path, form)
	require.NoError(t, err)

	return readResponse(t, res)
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, string) {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, string(body)
}

// createTestUser inserts an activated user with the write permission straight
// into the database and returns its id.
func createTestUser(t *testing.T, db *sql.DB, username string, staff bool) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), 12)
	require.NoError(t, err)

	var id int
	err = db.QueryRow(`
		INSERT INTO users (username, email, password, activated, is_staff)
		VALUES ($1, $2, $3, true, $4)
		RETURNING id`, username, username+"@example.com", hash, staff).Scan(&id)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)`, id, userservice.PermissionWriteBlog)
	require.NoError(t, err)

	return id
}

func (ts *testServer) login(t *testing.T, username string) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", testPassword)

	code, headers, _ := ts.postForm(t, "/login", form)
	require.Equal(t, http.StatusSeeOther, code)
	require.Equal(t, "/", headers.Get("Location"))
}

func (ts *testServer) logout(t *testing.T) {
	code, _, _ := ts.postForm(t, "/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, code)
}

func countRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	err := db.QueryRow(query, args...).Scan(&n)
	require.NoError(t, err)

	return n
}

func assertRedirect(t *testing.T, code int, headers http.Header, target string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, code)
	location := headers.Get("Location")
	assert.True(t, location == target || strings.HasPrefix(location, target+"?"), "expected redirect to %s, got %s", target, location)
}
