// Package fetcher downloads a single known artifact to its local
// filename, resuming partial downloads and verifying integrity before
// reporting success.
package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	eskyerrors "github.com/ajxudir/esky/pkg/errors"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/display"
	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/verbose"
)

// errBadHash signals that a locally complete file failed its integrity
// check and must be deleted and redownloaded.
var errBadHash = errors.New("local file failed integrity check")

// Fetcher downloads known artifacts over HTTP(S), resuming partial files
// via Range requests and verifying the completed download against its
// declared size and hash.
type Fetcher struct {
	Client *http.Client
}

// New creates a Fetcher using http.DefaultClient.
func New() *Fetcher {
	return &Fetcher{Client: http.DefaultClient}
}

// NewWithTimeout creates a Fetcher whose client times out each request
// after timeoutSeconds. A non-positive value leaves the client with no
// timeout, matching http.DefaultClient. Resumed downloads re-issue a
// fresh request per attempt, so the timeout bounds a single GET rather
// than the whole multi-attempt fetch.
func NewWithTimeout(timeoutSeconds int) *Fetcher {
	if timeoutSeconds <= 0 {
		return New()
	}
	return &Fetcher{Client: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}}
}

// Fetch downloads f to f.GetFullFilename(a), or confirms it's already
// present and valid. It spends at most attempts failed tries before
// giving up with a DownloadError; progress may be nil.
//
// Each attempt: if a local file already satisfies the declared size and
// hash, Fetch returns immediately without touching the network. If a
// local file is present but short, the next request resumes from its
// current length via a Range header. Two consecutive attempts that
// observe the exact same resume offset are treated as stalled: the
// partial file is discarded and the next attempt restarts from zero. A
// file's hash is checked only once it looks complete by size - never
// chunk by chunk mid-download.
func (fe *Fetcher) Fetch(ctx context.Context, a *app.App, f *summary.KnownFile, attempts int, progress *display.Progress) error {
	if attempts <= 0 {
		attempts = 2
	}
	path := f.GetFullFilename(a)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eskyerrors.NewDownloadError(f.GetFilename(), f.URL, 0, err)
	}

	resumedFrom := int64(-1)
	var lastErr error

	for used := 0; used < attempts; {
		seekTo, satisfied, checkErr := fe.prepareSeek(a, f, path)
		if satisfied {
			return nil
		}
		if checkErr != nil {
			_ = os.Remove(path)
			used++
			resumedFrom = -1
			lastErr = checkErr
			verbose.DownloadResult(f.GetFilename(), false, 0)
			continue
		}

		if resumedFrom == seekTo {
			_ = os.Remove(path)
			used++
			resumedFrom = -1
			lastErr = errors.New("download stalled: no progress since last attempt")
			verbose.DownloadResult(f.GetFilename(), false, 0)
			continue
		}
		resumedFrom = seekTo

		verbose.DownloadAttempt(f.GetFilename(), used+1, attempts, seekTo)
		if err := fe.download(ctx, f.URL, path, seekTo, progress); err != nil {
			used++
			lastErr = err
			verbose.DownloadResult(f.GetFilename(), false, seekTo)
			continue
		}
	}

	return eskyerrors.NewDownloadError(f.GetFilename(), f.URL, attempts, lastErr)
}

// prepareSeek inspects the local file, if any, and reports the offset
// the next GET should resume from, whether the file is already
// satisfied (no network needed), and whether a complete-by-size file
// failed its hash check.
func (fe *Fetcher) prepareSeek(a *app.App, f *summary.KnownFile, path string) (seekTo int64, satisfied bool, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return 0, false, nil
	}

	n := info.Size()
	if f.Size == 0 {
		if n > 0 {
			return 0, true, nil
		}
		return 0, false, nil
	}

	if n < f.Size {
		return n, false, nil
	}

	if f.CheckHash(a) {
		return 0, true, nil
	}
	return 0, false, errBadHash
}

// download issues a single GET for url, writing the response body to
// path starting at seekTo (using a Range request and append mode when
// seekTo is positive), and reports bytes written via progress.
func (fe *Fetcher) download(ctx context.Context, url, path string, seekTo int64, progress *display.Progress) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if seekTo > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(seekTo, 10)+"-")
	}

	resp, err := fe.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return &unexpectedStatusError{Status: resp.StatusCode}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if seekTo > 0 && resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		seekTo = 0
	}

	out, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	var writer io.Writer = out
	if progress != nil {
		writer = &progressWriter{w: out, progress: progress, total: seekTo}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}

type progressWriter struct {
	w        io.Writer
	progress *display.Progress
	total    int64
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.total += int64(n)
	pw.progress.SetCurrent(pw.total)
	return n, err
}

type unexpectedStatusError struct{ Status int }

func (e *unexpectedStatusError) Error() string {
	return "unexpected HTTP status " + strconv.Itoa(e.Status)
}
