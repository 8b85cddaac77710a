package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajxudir/esky/pkg/display"
	"github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/orchestrator"
	"github.com/ajxudir/esky/pkg/planner"
	"github.com/ajxudir/esky/pkg/version"
)

var (
	planAppFlag      string
	planPlatformFlag string
	planCurrentFlag  string
	planTargetFlag   string
	planSummaryFlag  string
	planDirFlag      string
	planConfigFlag   string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the upgrade path to a target version",
	Long:  `Computes and prints the cheapest sequence of artifacts needed to reach --target from --current, without downloading anything.`,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planAppFlag, "app", "", "Application name (required)")
	planCmd.Flags().StringVar(&planPlatformFlag, "platform", "", "Platform identifier (required)")
	planCmd.Flags().StringVar(&planCurrentFlag, "current", "", "Currently installed version (empty for fresh install)")
	planCmd.Flags().StringVar(&planTargetFlag, "target", "", "Target version (required)")
	planCmd.Flags().StringVar(&planSummaryFlag, "summary-url", "", "Summary document URL (required)")
	planCmd.Flags().StringVarP(&planDirFlag, "directory", "d", ".", "App install directory")
	planCmd.Flags().StringVarP(&planConfigFlag, "config", "c", "", "Config file path")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := requireFlags(map[string]string{
		"app":         planAppFlag,
		"platform":    planPlatformFlag,
		"target":      planTargetFlag,
		"summary-url": planSummaryFlag,
	}); err != nil {
		return err
	}

	cfg, err := loadAppConfig(planConfigFlag, planDirFlag)
	if err != nil {
		return err
	}

	current := version.Parse(planCurrentFlag)
	if current.Invalid() {
		return errors.NewExitErrorf(errors.ExitConfigError, "invalid --current version %q", planCurrentFlag)
	}
	target := version.Parse(planTargetFlag)
	if target.Invalid() || target.Wildcard() {
		return errors.NewExitErrorf(errors.ExitConfigError, "invalid --target version %q", planTargetFlag)
	}

	a := newApp(planAppFlag, planCurrentFlag, planPlatformFlag, planDirFlag, cfg)
	o := orchestrator.New(a, cfg, planSummaryFlag)

	if _, err := o.FindVersions(cmd.Context(), current); err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	path, err := planner.Plan(o.Graph(), a, cfg, current, target)
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	if len(path) == 0 {
		fmt.Printf("%s is already at %s; nothing to do\n", a.Name, target.String())
		return nil
	}

	table := display.NewPlanTable()
	type row struct{ step, from, to, url, cost string }
	rows := make([]row, 0, len(path))
	from := current.String()
	var total int64
	for i, edge := range path {
		cost := edge.GetCost(a, cfg)
		total += cost
		r := row{
			step: strconv.Itoa(i + 1),
			from: from,
			to:   edge.Version.String(),
			url:  edge.URL,
			cost: strconv.FormatInt(cost, 10),
		}
		rows = append(rows, r)
		table.UpdateWidths(r.step, r.from, r.to, r.url, r.cost)
		from = edge.Version.String()
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, r := range rows {
		fmt.Println(table.FormatRow(r.step, r.from, r.to, r.url, r.cost))
	}
	fmt.Printf("\nTotal cost: %d bytes over %d step(s)\n", total, len(path))

	return nil
}
