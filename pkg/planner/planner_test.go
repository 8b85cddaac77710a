package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	"github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/graph"
	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/version"
)

func testConfig() *config.Config {
	return &config.Config{
		FullInstallCostBytes: 10 << 20,
		PatchCostBytes:       2 << 20,
		CachedCostDivisor:    1024,
	}
}

func testApp(dir string) *app.App {
	return app.New("example", "1.0", "win32", dir, "downloads", "unpack", "ready")
}

func edge(v, from, url string, size int64) *summary.KnownFile {
	var fromVersions []version.Version
	for _, tok := range splitComma(from) {
		fromVersions = append(fromVersions, version.Parse(tok))
	}
	return &summary.KnownFile{
		AppName:      "example",
		Platform:     "win32",
		Version:      version.Parse(v),
		FromVersions: fromVersions,
		URL:          "http://host/" + url,
		Size:         size,
	}
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func TestPlanEmptyPathWhenAlreadyAtTarget(t *testing.T) {
	g := graph.New("example", "win32")
	path, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse("1.0"), version.Parse("1.0"))
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPlanFreshInstall(t *testing.T) {
	g := graph.New("example", "win32")
	g.AddFile(edge("1.0", "*", "example-1.0.win32.zip", 0))

	path, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse(""), version.Parse("1.0"))
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.True(t, path[0].Version.Equal(version.Parse("1.0")))
}

func TestPlanChainPatchingPrefersCheapDirectPatch(t *testing.T) {
	g := graph.New("example", "win32")
	g.AddFile(edge("0.1", "*", "example-0.1.win32.zip", 0))
	g.AddFile(edge("0.2", "0.1", "0.1-to-0.2.esky", 0))
	g.AddFile(edge("0.3", "0.2", "0.2-to-0.3.esky", 0))
	g.AddFile(edge("0.3", "*", "example-0.3.win32.zip", 9000))
	g.AddFile(edge("0.3", "0.1", "0.1-to-0.3.esky", 500))

	path, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse("0.1"), version.Parse("0.3"))
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "http://host/0.1-to-0.3.esky", path[0].URL)
}

func TestPlanWildcardPatchFromNonEmptySource(t *testing.T) {
	g := graph.New("example", "win32")
	g.AddFile(edge("0.1", "*", "example-0.1.win32.zip", 0))
	g.AddFile(edge("0.7", "0.1", "0.1-to-0.7.esky", 0))
	g.AddFile(edge("1.0", "0.*", "0.x-to-1.0.esky", 1043))
	g.AddFile(edge("1.0", "*", "example-1.0.win32.zip", 20004))

	path, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse("0.7"), version.Parse("1.0"))
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "http://host/0.x-to-1.0.esky", path[0].URL)
}

func TestPlanWildcardPatchUnusableFromEmptySource(t *testing.T) {
	g := graph.New("example", "win32")
	g.AddFile(edge("1.0", "0.*", "0.x-to-1.0.esky", 1043))
	g.AddFile(edge("1.0", "*", "example-1.0.win32.zip", 20004))

	path, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse(""), version.Parse("1.0"))
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "http://host/example-1.0.win32.zip", path[0].URL)
}

func TestPlanNoPathErrorWhenUnreachable(t *testing.T) {
	g := graph.New("example", "win32")
	g.AddFile(edge("1.0", "*", "example-1.0.win32.zip", 0))

	_, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse("0.1"), version.Parse("2.0"))
	require.Error(t, err)
	var nperr *errors.NoPathError
	require.ErrorAs(t, err, &nperr)
}

func TestPlanPrunesEdgesPastTarget(t *testing.T) {
	g := graph.New("example", "win32")
	g.AddFile(edge("0.1", "*", "example-0.1.win32.zip", 0))
	g.AddFile(edge("0.5", "0.1", "0.1-to-0.5.esky", 0))
	g.AddFile(edge("1.0", "0.5", "0.5-to-1.0.esky", 0))

	path, err := Plan(g, testApp(t.TempDir()), testConfig(), version.Parse("0.1"), version.Parse("0.5"))
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.True(t, path[0].Version.Equal(version.Parse("0.5")))
}
