package cmd

import (
	"archive/zip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCommandFreshInstall(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	zipPath := filepath.Join(t.TempDir(), "a.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("example-1.0.win32/bin/app.exe")
	require.NoError(t, err)
	_, err = w.Write([]byte("v1"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	zipData, err := os.ReadFile(zipPath)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/summary.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("example win32 1.0 * http://" + r.Host + "/example-1.0.win32.zip\n"))
	})
	mux.HandleFunc("/example-1.0.win32.zip", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(zipData)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	os.Args = []string{
		"esky", "update",
		"--app", "example", "--platform", "win32",
		"--target", "1.0", "--summary-url", srv.URL + "/summary.txt",
		"-d", dir,
	}

	output := captureStdout(t, func() {
		require.NoError(t, ExecuteTest())
	})

	assert.Contains(t, output, "staged at")
	_, statErr := os.Stat(filepath.Join(dir, "updates", "ready", "example-1.0.win32"))
	assert.NoError(t, statErr)
}

func TestUpdateCommandRejectsWildcardTarget(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{
		"esky", "update",
		"--app", "example", "--platform", "win32",
		"--target", "*", "--summary-url", "http://unused",
	}

	assert.Error(t, ExecuteTest())
}
