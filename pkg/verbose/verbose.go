// Package verbose provides leveled debug logging with documentation
// references for the update planning and fetch pipeline.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level represents the verbosity level for debug output.
type Level int

const (
	// LevelQuiet suppresses all debug output.
	LevelQuiet Level = iota
	// LevelNormal is the default level with no debug output.
	LevelNormal
	// LevelVerbose (-v) shows plan decisions, fetch attempts, and summaries.
	LevelVerbose
	// LevelDebug (-vv) adds edge removals, replans, and per-file details.
	LevelDebug
	// LevelTrace (-vvv) shows full version lists and graph contents.
	LevelTrace
)

var (
	mu         sync.RWMutex
	enabled    bool
	suppressed bool // temporarily suppress output (e.g. during cleanup scans)
	level      Level = LevelVerbose
	writer     io.Writer = os.Stderr
)

// Enable turns on verbose logging.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// Suppress temporarily suppresses verbose output without disabling it.
// Use this for operations that would produce excessive noise (e.g. the
// cleanup directory walk). Call Unsuppress() when done.
func Suppress() {
	mu.Lock()
	defer mu.Unlock()
	suppressed = true
}

// Unsuppress restores verbose output after a Suppress() call.
func Unsuppress() {
	mu.Lock()
	defer mu.Unlock()
	suppressed = false
}

// SetLevel sets the verbosity level. Level 1 = Verbose (-v), 2 = Debug
// (-vv), 3+ = Trace (-vvv).
func SetLevel(l int) {
	mu.Lock()
	defer mu.Unlock()
	switch {
	case l <= 0:
		level = LevelVerbose
	case l == 1:
		level = LevelVerbose
	case l == 2:
		level = LevelDebug
	default:
		level = LevelTrace
	}
}

// GetLevel returns the current verbosity level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// AtLevel returns true if the current level is at least the specified level.
func AtLevel(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled && !suppressed && level >= l
}

// IsDebug returns true if debug level (-vv) or higher is enabled.
func IsDebug() bool { return AtLevel(LevelDebug) }

// IsTrace returns true if trace level (-vvv) is enabled.
func IsTrace() bool { return AtLevel(LevelTrace) }

// IsSuppressed returns whether verbose output is currently suppressed.
func IsSuppressed() bool {
	mu.RLock()
	defer mu.RUnlock()
	return suppressed
}

// IsEnabled returns whether verbose logging is currently enabled.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

func getWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return writer
}

func isEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled && !suppressed
}

// Printf prints a formatted verbose message if enabled.
func Printf(format string, args ...any) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints an informational verbose message if enabled.
func Info(msg string) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] %s\n", msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
func Infof(format string, args ...any) {
	if isEnabled() {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Debugf prints a formatted debug message if -vv or higher is enabled.
// Use for edge removals, replans, per-file attempt details.
func Debugf(format string, args ...any) {
	if AtLevel(LevelDebug) {
		_, _ = fmt.Fprintf(getWriter(), "[DEBUG] "+format+"\n", args...)
	}
}

// Tracef prints a formatted trace message if -vvv is enabled. Use for
// full version lists and graph dumps.
func Tracef(format string, args ...any) {
	if AtLevel(LevelTrace) {
		_, _ = fmt.Fprintf(getWriter(), "[TRACE] "+format+"\n", args...)
	}
}

// DocRef represents a documentation reference for a specific topic.
type DocRef struct {
	Topic   string
	DocPath string
	Hint    string
}

// Common documentation references.
var docRefs = map[string]DocRef{
	"config": {
		Topic:   "Configuration",
		DocPath: "docs/configuration.md",
		Hint:    "See configuration guide for YAML schema and options",
	},
	"graph": {
		Topic:   "Upgrade Graph",
		DocPath: "docs/architecture.md#upgrade-graph",
		Hint:    "How versions and artifact edges are wired together",
	},
	"fetch": {
		Topic:   "Fetching",
		DocPath: "docs/architecture.md#fetcher",
		Hint:    "Resume, retry, and integrity-check behavior",
	},
	"prepare": {
		Topic:   "Preparation",
		DocPath: "docs/architecture.md#preparer",
		Hint:    "How a staged version tree is built from patches",
	},
	"cli": {
		Topic:   "CLI Reference",
		DocPath: "docs/cli.md",
		Hint:    "See all available commands and flags",
	},
}

// WithDocRef prints a verbose message with a documentation reference if enabled.
func WithDocRef(topic, message string) {
	if !isEnabled() {
		return
	}
	w := getWriter()
	ref, ok := docRefs[strings.ToLower(topic)]
	if !ok {
		_, _ = fmt.Fprintf(w, "[DEBUG] %s\n", message)
		return
	}
	_, _ = fmt.Fprintf(w, "[DEBUG] %s (see %s: %s)\n", message, ref.DocPath, ref.Hint)
}

// SummaryLoaded logs the outcome of a summary fetch: how many lines
// parsed cleanly and how many were skipped.
func SummaryLoaded(url string, parsed, skipped int) {
	if !isEnabled() {
		return
	}
	Infof("summary %s: %d file(s) parsed, %d line(s) skipped", url, parsed, skipped)
}

// SummaryLineSkipped logs a single malformed summary line at debug level.
func SummaryLineSkipped(line int, reason string) {
	Debugf("summary line %d skipped: %s", line, reason)
}

// EdgeAdded logs a single upgrade edge being wired into the graph.
func EdgeAdded(from, to, url string) {
	Debugf("edge added: %s -> %s (%s)", from, to, url)
}

// EdgeRemoved logs a single upgrade edge being pruned from the graph,
// typically in response to a failed fetch or prepare step.
func EdgeRemoved(from, to, reason string) {
	if !isEnabled() {
		return
	}
	Infof("edge removed: %s -> %s (%s)", from, to, reason)
}

// PlanComputed logs the result of a planning attempt.
func PlanComputed(source, target string, hops int, cost int64) {
	if !isEnabled() {
		return
	}
	Infof("plan %s -> %s: %d hop(s), cost %d", source, target, hops, cost)
}

// ReplanAttempted logs that the planner is being re-invoked after an
// edge removal, with the attempt number for the current fetch.
func ReplanAttempted(source, target string, attempt int) {
	Debugf("replanning %s -> %s (attempt %d)", source, target, attempt)
}

// DownloadAttempt logs a single download attempt for a known file.
func DownloadAttempt(filename string, attempt, maxAttempts int, resumedFrom int64) {
	if !isEnabled() {
		return
	}
	if resumedFrom > 0 {
		Infof("downloading %s (attempt %d/%d, resumed from %d bytes)", filename, attempt, maxAttempts, resumedFrom)
		return
	}
	Infof("downloading %s (attempt %d/%d)", filename, attempt, maxAttempts)
}

// DownloadResult logs the outcome of a download attempt.
func DownloadResult(filename string, ok bool, bytesWritten int64) {
	if !isEnabled() {
		return
	}
	if ok {
		Infof("downloaded %s: %d bytes, hash verified", filename, bytesWritten)
		return
	}
	Infof("download incomplete for %s: %d bytes written", filename, bytesWritten)
}

// PrepareStep logs a single preparation step (extract, copy, patch apply).
func PrepareStep(appName, version, step string) {
	Debugf("preparing %s %s: %s", appName, version, step)
}

// CleanupDecision logs a single reconciliation decision made while
// scanning the downloads directory.
func CleanupDecision(filename, action, reason string) {
	if !isEnabled() {
		return
	}
	Infof("cleanup %s: %s (%s)", filename, action, reason)
}

// truncate shortens s to maxLen runes, appending an ellipsis marker when
// truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
