package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/verbose"
)

// CleanupAction names what Cleanup did with a given on-disk path.
type CleanupAction string

const (
	ActionKept      CleanupAction = "kept"
	ActionDeleted   CleanupAction = "deleted"
	ActionRecreated CleanupAction = "recreated"
)

// CleanupEntry reports one reconciliation decision, suitable for
// rendering with pkg/display's cleanup table.
type CleanupEntry struct {
	File   string
	Action CleanupAction
	Reason string
}

// Cleanup reconciles the downloads directory against the most recently
// loaded summary - deleting any file with no corresponding known
// artifact, or whose declared integrity check fails - and clears and
// recreates the unpack and ready scratch directories. It runs after a
// prepared version has been consumed (or an update cycle abandoned), to
// reclaim the scratch space those directories hold without discarding
// downloads that a future update could still reuse.
func (o *Orchestrator) Cleanup() ([]CleanupEntry, error) {
	var entries []CleanupEntry

	downloadEntries, err := o.reconcileDownloads()
	if err != nil {
		return entries, err
	}
	entries = append(entries, downloadEntries...)

	for _, dir := range []string{o.App.UnpackDir(), o.App.ReadyDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return entries, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return entries, err
		}
		entries = append(entries, CleanupEntry{File: dir, Action: ActionRecreated, Reason: "scratch directory cleared"})
	}

	return entries, nil
}

func (o *Orchestrator) reconcileDownloads() ([]CleanupEntry, error) {
	var entries []CleanupEntry

	dirEntries, err := os.ReadDir(o.App.DownloadsDir())
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return entries, err
	}

	byName := make(map[string][]*summary.KnownFile)
	for _, f := range o.files {
		if f.AppName != o.App.Name || f.Platform != o.App.Platform {
			continue
		}
		byName[f.GetFilename()] = append(byName[f.GetFilename()], f)
	}

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		path := filepath.Join(o.App.DownloadsDir(), name)

		candidates := byName[name]
		if len(candidates) == 0 {
			if err := os.Remove(path); err != nil {
				return entries, err
			}
			entries = append(entries, CleanupEntry{File: name, Action: ActionDeleted, Reason: "no corresponding known artifact"})
			verbose.CleanupDecision(name, string(ActionDeleted), "no corresponding known artifact")
			continue
		}

		// Prefer the most recently listed candidate that matches, scanning
		// backwards so a later summary entry wins over an earlier one with
		// the same basename.
		var valid *summary.KnownFile
		for i := len(candidates) - 1; i >= 0; i-- {
			if candidates[i].CheckHash(o.App) {
				valid = candidates[i]
				break
			}
		}
		if valid != nil {
			entries = append(entries, CleanupEntry{File: name, Action: ActionKept, Reason: "matches a known artifact"})
			continue
		}

		// No candidate's declared size/hash matches the file on disk.
		// Basename collisions are attributed to the most recently listed
		// matching record and treated as a bad download.
		newest := candidates[len(candidates)-1]
		if err := os.Remove(path); err != nil {
			return entries, err
		}
		reason := "failed integrity check for " + newest.Version.String()
		entries = append(entries, CleanupEntry{File: name, Action: ActionDeleted, Reason: reason})
		verbose.CleanupDecision(name, string(ActionDeleted), reason)
	}

	return entries, nil
}
