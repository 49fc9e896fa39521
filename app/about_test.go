package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plokkeri/plok/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAboutHandlerCachesRenderedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "about.md")
	require.NoError(t, os.WriteFile(path, []byte("# Plok\n\nA **blogging** platform."), 0o600))

	app := newBareApplication(t, &Config{AboutFile: path})
	app.cache = common.NewCache(time.Minute, time.Minute)

	rec := httptest.NewRecorder()
	app.aboutHandler(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()
	assert.Contains(t, first, "<strong>blogging</strong>")

	// the second hit must come from the cache, not the file
	require.NoError(t, os.Remove(path))

	rec = httptest.NewRecorder()
	app.aboutHandler(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, rec.Body.String())
}

func TestAboutHandlerMissingFile(t *testing.T) {
	app := newBareApplication(t, &Config{AboutFile: filepath.Join(t.TempDir(), "missing.md")})
	app.cache = common.NewCache(time.Minute, time.Minute)

	rec := httptest.NewRecorder()
	app.aboutHandler(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
