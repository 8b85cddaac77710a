package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	"github.com/ajxudir/esky/pkg/display"
	"github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/graph"
	"github.com/ajxudir/esky/pkg/orchestrator"
	"github.com/ajxudir/esky/pkg/planner"
	"github.com/ajxudir/esky/pkg/version"
)

var (
	versionsAppFlag      string
	versionsPlatformFlag string
	versionsCurrentFlag  string
	versionsSummaryFlag  string
	versionsDirFlag      string
	versionsConfigFlag   string
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List versions reachable from the currently installed one",
	Long:  `Fetches the version summary and reports every version reachable from the current install, with its origin and cheapest-path fetch cost.`,
	RunE:  runVersions,
}

func init() {
	versionsCmd.Flags().StringVar(&versionsAppFlag, "app", "", "Application name (required)")
	versionsCmd.Flags().StringVar(&versionsPlatformFlag, "platform", "", "Platform identifier (required)")
	versionsCmd.Flags().StringVar(&versionsCurrentFlag, "current", "", "Currently installed version (empty for fresh install)")
	versionsCmd.Flags().StringVar(&versionsSummaryFlag, "summary-url", "", "Summary document URL (required)")
	versionsCmd.Flags().StringVarP(&versionsDirFlag, "directory", "d", ".", "App install directory")
	versionsCmd.Flags().StringVarP(&versionsConfigFlag, "config", "c", "", "Config file path")
}

func runVersions(cmd *cobra.Command, args []string) error {
	if err := requireFlags(map[string]string{
		"app":         versionsAppFlag,
		"platform":    versionsPlatformFlag,
		"summary-url": versionsSummaryFlag,
	}); err != nil {
		return err
	}

	cfg, err := loadAppConfig(versionsConfigFlag, versionsDirFlag)
	if err != nil {
		return err
	}

	current := version.Parse(versionsCurrentFlag)
	if current.Invalid() {
		return errors.NewExitErrorf(errors.ExitConfigError, "invalid --current version %q", versionsCurrentFlag)
	}

	a := newApp(versionsAppFlag, versionsCurrentFlag, versionsPlatformFlag, versionsDirFlag, cfg)
	o := orchestrator.New(a, cfg, versionsSummaryFlag)

	versions, err := o.FindVersions(cmd.Context(), current)
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	table := display.NewVersionsTable()
	rows := make([][4]string, 0, len(versions))
	for _, v := range versions {
		row := [4]string{v.String(), a.Platform, versionSource(v, current), pathCost(o.Graph(), a, cfg, current, v)}
		rows = append(rows, row)
		table.UpdateWidths(row[0], row[1], row[2], row[3])
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, row := range rows {
		fmt.Println(table.FormatRow(row[0], row[1], row[2], row[3]))
	}

	return nil
}

// versionSource labels a listed version as the already-installed current
// one or a reachable upgrade.
func versionSource(v, current version.Version) string {
	if v.Equal(current) {
		return "current"
	}
	return "upgrade"
}

// pathCost renders the total byte cost of the cheapest plan from current
// to v, or "-" when v is the current version or no path exists (which
// GetVersions should never surface, since it only reports reachable
// versions, but pathCost stays defensive rather than panicking on a
// planner disagreement).
func pathCost(g *graph.Graph, a *app.App, cfg *config.Config, current, v version.Version) string {
	if v.Equal(current) {
		return "-"
	}
	path, err := planner.Plan(g, a, cfg, current, v)
	if err != nil {
		return "-"
	}
	var total int64
	for _, edge := range path {
		total += edge.GetCost(a, cfg)
	}
	return strconv.FormatInt(total, 10)
}
