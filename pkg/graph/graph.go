// Package graph builds and maintains the upgrade graph: the set of known
// versions for an application/platform pair and the artifact edges that
// move between them.
package graph

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/verbose"
	"github.com/ajxudir/esky/pkg/version"
)

// Graph is the upgrade graph for a single (app name, platform) pair:
// every version known to exist, and the artifacts that upgrade between
// them. Versions are keyed by their canonical String() form, since
// version.Version itself (holding a slice) is not a valid map key.
type Graph struct {
	AppName  string
	Platform string

	versions map[string]version.Version
	files    []*summary.KnownFile
	upgrades map[string][]*summary.KnownFile
}

// New creates an upgrade graph scoped to a single app and platform. Its
// only node is the empty version, the source of full-install edges, so
// that a fresh install is reachable once files are added.
func New(appName, platform string) *Graph {
	g := &Graph{
		AppName:  appName,
		Platform: platform,
		versions: make(map[string]version.Version),
		upgrades: make(map[string][]*summary.KnownFile),
	}
	empty := version.Parse("")
	g.versions[empty.String()] = empty
	return g
}

// Load rebuilds a fresh graph from a freshly parsed summary, keeping only
// the records for g's app/platform, and injects the currently running
// version as a node even if no file produces it. A graph is rebuilt from
// scratch on every successful summary reload rather than patched in
// place.
func Load(appName, platform string, files []*summary.KnownFile, current version.Version) *Graph {
	g := New(appName, platform)
	g.versions[current.String()] = current

	for _, f := range files {
		if f.AppName != appName || f.Platform != platform {
			continue
		}
		g.AddFile(f)
	}
	return g
}

// edgeAllowed reports whether an edge from source to target belongs in
// the graph: no self-edges (no cycles), and no downgrade edges. The
// asymmetry the reference implementation shows between its two wiring
// steps is deliberately not replicated here; both the direct and
// new-node wiring paths apply the same rule.
func edgeAllowed(source, target version.Version) bool {
	if source.Equal(target) {
		return false
	}
	cmp, err := source.Compare(target)
	if err != nil {
		return false
	}
	return cmp <= 0
}

// AddFile registers a single artifact edge. If its produced version is
// new to the graph, it becomes a node; every existing node that can use
// this file as an upgrade (a non-downgrade edge whose FromVersions
// pattern contains the node's version) gets it appended to its outgoing
// edge set. When the produced version is a new node, the existing file
// list is also scanned so that the new node picks up any outgoing edges
// it newly qualifies as a source for.
func (g *Graph) AddFile(f *summary.KnownFile) {
	key := f.Version.String()
	_, existed := g.versions[key]
	if !existed {
		g.versions[key] = f.Version
	}
	g.files = append(g.files, f)

	for vKey, v := range g.versions {
		if !edgeAllowed(v, f.Version) {
			continue
		}
		if !v.InAny(f.FromVersions) {
			continue
		}
		g.upgrades[vKey] = append(g.upgrades[vKey], f)
		verbose.EdgeAdded(v.String(), f.Version.String(), f.URL)
	}

	if !existed {
		for _, other := range g.files {
			if other == f {
				continue
			}
			if !edgeAllowed(f.Version, other.Version) {
				continue
			}
			if !f.Version.InAny(other.FromVersions) {
				continue
			}
			g.upgrades[key] = append(g.upgrades[key], other)
			verbose.EdgeAdded(key, other.Version.String(), other.URL)
		}
	}
}

// RemoveFile drops a single artifact edge from the graph: every
// upgrades[] list it appears in, the files list, and - if no other file
// still produces that version - the node itself. Called when a download
// or patch application fails, so the outer retry loop can replan without
// this edge.
func (g *Graph) RemoveFile(f *summary.KnownFile) {
	filtered := g.files[:0:0]
	for _, other := range g.files {
		if other != f {
			filtered = append(filtered, other)
		}
	}
	g.files = filtered

	for vKey, edges := range g.upgrades {
		kept := edges[:0:0]
		for _, e := range edges {
			if e != f {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(g.upgrades, vKey)
		} else {
			g.upgrades[vKey] = kept
		}
	}

	stillProduced := false
	for _, other := range g.files {
		if other.Version.Equal(f.Version) {
			stillProduced = true
			break
		}
	}
	if !stillProduced {
		delete(g.versions, f.Version.String())
		delete(g.upgrades, f.Version.String())
	}

	verbose.EdgeRemoved(f.GetFilename(), f.Version.String(), "removed after failed fetch/prepare")
}

// Versions returns every version currently registered as a node,
// independent of reachability from any particular source.
func (g *Graph) Versions() []version.Version {
	out := make([]version.Version, 0, len(g.versions))
	for _, v := range g.versions {
		out = append(out, v)
	}
	sortVersions(out)
	return out
}

// Edges returns the outgoing artifact edges from source, or nil if
// source has none.
func (g *Graph) Edges(source version.Version) []*summary.KnownFile {
	return g.upgrades[source.String()]
}

// GetVersions returns every version reachable from source by following
// outgoing edges, including source itself. source is inserted as a node
// if the graph doesn't already have it.
func (g *Graph) GetVersions(source version.Version) []version.Version {
	key := source.String()
	if _, ok := g.versions[key]; !ok {
		g.versions[key] = source
	}

	visited := map[string]version.Version{key: source}
	queue := []version.Version{source}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, edge := range g.upgrades[v.String()] {
			tk := edge.Version.String()
			if _, seen := visited[tk]; seen {
				continue
			}
			visited[tk] = edge.Version
			queue = append(queue, edge.Version)
		}
	}

	out := make([]version.Version, 0, len(visited))
	for _, v := range visited {
		out = append(out, v)
	}
	sortVersions(out)
	return out
}

func sortVersions(vs []version.Version) {
	sort.Slice(vs, func(i, j int) bool {
		cmp, err := vs[i].Compare(vs[j])
		if err != nil {
			return vs[i].String() < vs[j].String()
		}
		return cmp < 0
	})
}

// DebugJSON renders the graph's nodes and outgoing edges as
// deterministically ordered JSON, suitable for troubleshooting a
// produced plan or a "why can't I reach this version" report. Node keys
// are emitted in sorted canonical-version order, using an ordered map so
// the output is stable across runs rather than subject to Go's
// randomized map iteration.
func (g *Graph) DebugJSON() ([]byte, error) {
	root := orderedmap.New()
	root.SetEscapeHTML(false)

	keys := make([]string, 0, len(g.versions))
	for k := range g.versions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		edges := g.upgrades[k]
		edgeDump := make([]*orderedmap.OrderedMap, 0, len(edges))
		for _, e := range edges {
			edge := orderedmap.New()
			edge.SetEscapeHTML(false)
			edge.Set("to", e.Version.String())
			edge.Set("url", e.URL)
			edge.Set("full_install", e.IsFullInstall())
			edgeDump = append(edgeDump, edge)
		}
		root.Set(k, edgeDump)
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(root); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
