package verbose

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEnableDisable tests the behavior of Enable and Disable functions.
func TestEnableDisable(t *testing.T) {
	Disable()
	assert.False(t, IsEnabled())

	Enable()
	assert.True(t, IsEnabled())

	Disable()
	assert.False(t, IsEnabled())
}

// TestSetWriter tests the behavior of SetWriter.
func TestSetWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	Enable()
	Printf("test message")
	Disable()

	assert.Contains(t, buf.String(), "[DEBUG] test message")

	SetWriter(nil)
	buf.Reset()
	Enable()
	Printf("another message")
	Disable()
	assert.Contains(t, buf.String(), "[DEBUG] another message")
}

func TestPrintf(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)

	Disable()
	Printf("hidden %d", 1)
	assert.Empty(t, buf.String())

	Enable()
	Printf("visible %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] visible 2")
	Disable()
}

func TestSuppressUnsuppress(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	Suppress()
	assert.True(t, IsSuppressed())
	Printf("muted")
	assert.Empty(t, buf.String())

	Unsuppress()
	assert.False(t, IsSuppressed())
	Printf("audible")
	assert.Contains(t, buf.String(), "audible")
}

func TestSetLevelAndAtLevel(t *testing.T) {
	Enable()
	defer Disable()

	SetLevel(0)
	assert.Equal(t, LevelVerbose, GetLevel())

	SetLevel(2)
	assert.Equal(t, LevelDebug, GetLevel())
	assert.True(t, IsDebug())
	assert.False(t, IsTrace())

	SetLevel(3)
	assert.Equal(t, LevelTrace, GetLevel())
	assert.True(t, IsTrace())
}

func TestDebugfRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	SetLevel(1)
	Debugf("hidden at verbose")
	assert.Empty(t, buf.String())

	SetLevel(2)
	Debugf("shown at debug")
	assert.Contains(t, buf.String(), "shown at debug")
}

func TestWithDocRefKnownTopic(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	WithDocRef("graph", "wired an edge")
	assert.Contains(t, buf.String(), "wired an edge")
	assert.Contains(t, buf.String(), "docs/architecture.md#upgrade-graph")
}

func TestWithDocRefUnknownTopic(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	WithDocRef("nonsense", "plain message")
	assert.Contains(t, buf.String(), "plain message")
	assert.NotContains(t, buf.String(), "docs/")
}

func TestSummaryLoaded(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	SummaryLoaded("https://example.com/versions.txt", 5, 2)
	assert.Contains(t, buf.String(), "5 file(s) parsed")
	assert.Contains(t, buf.String(), "2 line(s) skipped")
}

func TestEdgeAddedAndRemoved(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	SetLevel(2)
	EdgeAdded("1.0", "2.0", "https://example.com/a.zip")
	assert.Contains(t, buf.String(), "edge added: 1.0 -> 2.0")

	buf.Reset()
	EdgeRemoved("1.0", "2.0", "download failed")
	assert.Contains(t, buf.String(), "edge removed: 1.0 -> 2.0 (download failed)")
}

func TestPlanComputed(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	PlanComputed("1.0", "3.0", 2, 4096)
	assert.Contains(t, buf.String(), "1.0 -> 3.0: 2 hop(s), cost 4096")
}

func TestDownloadAttemptAndResult(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	DownloadAttempt("app-2.0.zip", 1, 2, 0)
	assert.Contains(t, buf.String(), "downloading app-2.0.zip (attempt 1/2)")

	buf.Reset()
	DownloadAttempt("app-2.0.zip", 2, 2, 512)
	assert.Contains(t, buf.String(), "resumed from 512 bytes")

	buf.Reset()
	DownloadResult("app-2.0.zip", true, 1024)
	assert.Contains(t, buf.String(), "hash verified")
}

func TestCleanupDecision(t *testing.T) {
	buf := &bytes.Buffer{}
	SetWriter(buf)
	Enable()
	defer Disable()

	CleanupDecision("stale.zip", "deleted", "no matching known file")
	assert.Contains(t, buf.String(), "cleanup stale.zip: deleted (no matching known file)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "he...", truncate("hello", 2))
}
