package summary

import (
	"bufio"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	eskyerrors "github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/verbose"
	"github.com/ajxudir/esky/pkg/version"
)

// Parser fetches and parses the version summary document.
type Parser struct {
	Client *http.Client
}

// NewParser creates a Parser using http.DefaultClient.
func NewParser() *Parser {
	return &Parser{Client: http.DefaultClient}
}

// NewParserWithTimeout creates a Parser whose client times out requests
// after timeoutSeconds. A non-positive value leaves the client with no
// timeout, matching http.DefaultClient.
func NewParserWithTimeout(timeoutSeconds int) *Parser {
	if timeoutSeconds <= 0 {
		return NewParser()
	}
	return &Parser{Client: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}}
}

// Fetch retrieves the summary at url and parses it into KnownFile
// records. Malformed lines are collected as ParseErrors and skipped;
// they do not abort the parse. A transport failure is returned as the
// third value and callers must preserve their previous graph rather
// than acting on a nil/empty file list.
func (p *Parser) Fetch(ctx context.Context, url string) ([]*KnownFile, []error, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, eskyerrors.NewTransportError(url, err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, nil, eskyerrors.NewTransportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, eskyerrors.NewTransportError(url, &unexpectedStatusError{Status: resp.StatusCode})
	}

	files, parseErrs := Parse(resp.Body)
	verbose.SummaryLoaded(url, len(files), len(parseErrs))
	return files, parseErrs, nil
}

type unexpectedStatusError struct{ Status int }

func (e *unexpectedStatusError) Error() string {
	return "unexpected HTTP status " + strconv.Itoa(e.Status)
}

// Parse parses a summary document already read into memory (or streamed
// from any io.Reader via bufio), returning the successfully parsed
// KnownFile records and a ParseError per malformed or unparseable line.
func Parse(r interface{ Read([]byte) (int, error) }) ([]*KnownFile, []error) {
	scanner := bufio.NewScanner(r)
	var files []*KnownFile
	var parseErrs []error

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		file, err := parseLine(trimmed)
		if err != nil {
			verbose.SummaryLineSkipped(lineNo, err.Error())
			parseErrs = append(parseErrs, eskyerrors.NewParseError(lineNo, raw, err))
			continue
		}
		files = append(files, file)
	}

	return files, parseErrs
}

func parseLine(line string) (*KnownFile, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return nil, &malformedLineError{Reason: "expected at least 5 fields: app platform version from_versions url"}
	}

	appName, platform, versionStr, fromVersionsStr, url := fields[0], fields[1], fields[2], fields[3], fields[4]

	ver := version.Parse(versionStr)
	if ver.Invalid() || ver.Wildcard() || ver.Empty() {
		return nil, &malformedLineError{Reason: "produced version must be a valid, non-wildcard, non-empty version" + semverHint(versionStr)}
	}

	var fromVersions []version.Version
	for _, tok := range strings.Split(fromVersionsStr, ",") {
		fv := version.Parse(tok)
		if fv.Invalid() {
			return nil, &malformedLineError{Reason: "invalid from_versions entry " + strconv.Quote(tok) + semverHint(tok)}
		}
		fromVersions = append(fromVersions, fv)
	}
	if len(fromVersions) == 0 {
		return nil, &malformedLineError{Reason: "from_versions must not be empty"}
	}

	file := &KnownFile{
		AppName:      appName,
		Platform:     platform,
		Version:      ver,
		FromVersions: fromVersions,
		URL:          url,
	}

	if len(fields) >= 6 {
		size, err := strconv.ParseInt(fields[5], 10, 64)
		if err != nil || size < 0 {
			return nil, &malformedLineError{Reason: "invalid size " + strconv.Quote(fields[5])}
		}
		file.Size = size
	}
	if len(fields) >= 7 {
		sha := strings.ToLower(fields[6])
		if len(sha) != 64 || !isHex(sha) {
			return nil, &malformedLineError{Reason: "invalid sha256 " + strconv.Quote(fields[6])}
		}
		file.SHA256 = sha
	}
	if len(fields) > 7 {
		return nil, &malformedLineError{Reason: "too many fields"}
	}

	return file, nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

// semverHint appends a diagnostic suggestion when a malformed version
// literal happens to parse as a semver string, pointing the operator at
// the probable cause of a rejected summary row.
func semverHint(raw string) string {
	candidate := raw
	if !strings.HasPrefix(candidate, "v") {
		candidate = "v" + candidate
	}
	if semver.IsValid(candidate) {
		return " (looks like a semver string; this parser uses a dotted/qualifier grammar, not semver)"
	}
	return ""
}

type malformedLineError struct{ Reason string }

func (e *malformedLineError) Error() string { return e.Reason }
