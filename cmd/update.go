package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/orchestrator"
	"github.com/ajxudir/esky/pkg/version"
)

var (
	updateAppFlag      string
	updatePlatformFlag string
	updateCurrentFlag  string
	updateTargetFlag   string
	updateSummaryFlag  string
	updateDirFlag      string
	updateConfigFlag   string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch and stage a target version",
	Long:  `Plans a path to --target, downloads each step's artifact, applies it on top of the current install, and stages the result under the app's ready directory.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateAppFlag, "app", "", "Application name (required)")
	updateCmd.Flags().StringVar(&updatePlatformFlag, "platform", "", "Platform identifier (required)")
	updateCmd.Flags().StringVar(&updateCurrentFlag, "current", "", "Currently installed version (empty for fresh install)")
	updateCmd.Flags().StringVar(&updateTargetFlag, "target", "", "Target version (required)")
	updateCmd.Flags().StringVar(&updateSummaryFlag, "summary-url", "", "Summary document URL (required)")
	updateCmd.Flags().StringVarP(&updateDirFlag, "directory", "d", ".", "App install directory")
	updateCmd.Flags().StringVarP(&updateConfigFlag, "config", "c", "", "Config file path")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := requireFlags(map[string]string{
		"app":         updateAppFlag,
		"platform":    updatePlatformFlag,
		"target":      updateTargetFlag,
		"summary-url": updateSummaryFlag,
	}); err != nil {
		return err
	}

	cfg, err := loadAppConfig(updateConfigFlag, updateDirFlag)
	if err != nil {
		return err
	}

	current := version.Parse(updateCurrentFlag)
	if current.Invalid() {
		return errors.NewExitErrorf(errors.ExitConfigError, "invalid --current version %q", updateCurrentFlag)
	}
	target := version.Parse(updateTargetFlag)
	if target.Invalid() || target.Wildcard() {
		return errors.NewExitErrorf(errors.ExitConfigError, "invalid --target version %q", updateTargetFlag)
	}

	a := newApp(updateAppFlag, updateCurrentFlag, updatePlatformFlag, updateDirFlag, cfg)
	o := orchestrator.New(a, cfg, updateSummaryFlag)

	if err := o.FetchVersion(cmd.Context(), current, target); err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	if current.Equal(target) {
		fmt.Printf("%s is already at %s\n", a.Name, target.String())
		return nil
	}

	fmt.Printf("%s %s staged at %s\n", a.Name, target.String(), a.ReadyPath(target.String()))
	return nil
}
