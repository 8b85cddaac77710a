// Package orchestrator drives the end-to-end update cycle: load the
// summary into a graph, plan a path, fetch and prepare it, and retry
// around any edge that turns out to be bad.
package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	eskyerrors "github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/fetcher"
	"github.com/ajxudir/esky/pkg/graph"
	"github.com/ajxudir/esky/pkg/planner"
	"github.com/ajxudir/esky/pkg/preparer"
	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/verbose"
	"github.com/ajxudir/esky/pkg/version"
)

// Orchestrator holds the collaborators and graph state for a single
// app/platform's update cycle.
type Orchestrator struct {
	App        *app.App
	Config     *config.Config
	SummaryURL string

	Parser   *summary.Parser
	Fetcher  *fetcher.Fetcher
	Preparer *preparer.Preparer

	graph *graph.Graph
	files []*summary.KnownFile
}

// New creates an Orchestrator with the default parser, fetcher, and
// preparer collaborators.
func New(a *app.App, cfg *config.Config, summaryURL string) *Orchestrator {
	return &Orchestrator{
		App:        a,
		Config:     cfg,
		SummaryURL: summaryURL,
		Parser:     summary.NewParserWithTimeout(cfg.HTTPTimeoutSeconds),
		Fetcher:    fetcher.NewWithTimeout(cfg.HTTPTimeoutSeconds),
		Preparer:   preparer.New(),
	}
}

// FindVersions reloads the summary and returns every version reachable
// from current. A transport failure leaves any previously loaded graph
// untouched and is returned to the caller as "update failed" rather than
// mutating state; the graph is only rebuilt from scratch after a
// successful fetch.
func (o *Orchestrator) FindVersions(ctx context.Context, current version.Version) ([]version.Version, error) {
	files, parseErrs, err := o.Parser.Fetch(ctx, o.SummaryURL)
	if err != nil {
		return nil, err
	}
	for _, perr := range parseErrs {
		verbose.Debugf("summary parse error: %v", perr)
	}

	o.files = files
	o.graph = graph.Load(o.App.Name, o.App.Platform, files, current)
	return o.graph.GetVersions(current), nil
}

// Graph returns the upgrade graph built by the most recent successful
// FindVersions call, or nil if none has succeeded yet. Callers (such as
// the plan and versions commands) use it to price a path without
// driving a full fetch cycle.
func (o *Orchestrator) Graph() *graph.Graph {
	return o.graph
}

// FetchVersion plans a path from current to target and drives it
// through fetch and prepare. If a download or patch application fails,
// the offending edge is removed from the graph and the whole cycle
// replans from scratch; this continues until a path succeeds or the
// planner reports no remaining path (NoPathError), which propagates as
// a fatal outcome.
func (o *Orchestrator) FetchVersion(ctx context.Context, current, target version.Version) error {
	if o.graph == nil {
		if _, err := o.FindVersions(ctx, current); err != nil {
			return err
		}
	}

	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			// Suppress planner.Plan's logging on replans; only the
			// top-level replan-attempted line below is repeated per
			// attempt.
			verbose.Suppress()
		}
		path, err := planner.Plan(o.graph, o.App, o.Config, current, target)
		if attempt > 1 {
			verbose.Unsuppress()
		}
		if err != nil {
			return err
		}
		if len(path) == 0 {
			return nil
		}

		verbose.ReplanAttempted(current.String(), target.String(), attempt)

		badEdge, stepErr := o.runPath(ctx, path)
		if stepErr == nil {
			return nil
		}
		if badEdge == nil {
			return stepErr
		}

		o.graph.RemoveFile(badEdge)
	}
}

// runPath fetches and prepares a single planned path. On failure it
// returns the offending edge (for the caller to remove from the graph)
// alongside the error; on success both are nil.
func (o *Orchestrator) runPath(ctx context.Context, path planner.PlannedPath) (*summary.KnownFile, error) {
	for _, edge := range path {
		if err := o.Fetcher.Fetch(ctx, o.App, edge, o.Config.FetchAttempts, nil); err != nil {
			return edge, err
		}
	}

	if err := o.Preparer.Prepare(o.App, o.Config, path); err != nil {
		var perr *eskyerrors.PatchError
		if stderrors.As(err, &perr) {
			for _, edge := range path {
				if edge.Version.String() == perr.Version && edge.URL == perr.URL {
					return edge, err
				}
			}
		}
		return nil, fmt.Errorf("preparing %s: %w", path[len(path)-1].Version.String(), err)
	}

	return nil, nil
}
