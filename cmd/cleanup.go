package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajxudir/esky/pkg/display"
	"github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/orchestrator"
	"github.com/ajxudir/esky/pkg/version"
)

var (
	cleanupAppFlag      string
	cleanupPlatformFlag string
	cleanupSummaryFlag  string
	cleanupDirFlag      string
	cleanupConfigFlag   string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Reconcile the downloads cache and clear scratch directories",
	Long:  `Reloads the summary, deletes any cached download with no matching known artifact or a failed integrity check, and clears the unpack and ready scratch directories. Run after a staged version has been consumed.`,
	RunE:  runCleanup,
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupAppFlag, "app", "", "Application name (required)")
	cleanupCmd.Flags().StringVar(&cleanupPlatformFlag, "platform", "", "Platform identifier (required)")
	cleanupCmd.Flags().StringVar(&cleanupSummaryFlag, "summary-url", "", "Summary document URL (required)")
	cleanupCmd.Flags().StringVarP(&cleanupDirFlag, "directory", "d", ".", "App install directory")
	cleanupCmd.Flags().StringVarP(&cleanupConfigFlag, "config", "c", "", "Config file path")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if err := requireFlags(map[string]string{
		"app":         cleanupAppFlag,
		"platform":    cleanupPlatformFlag,
		"summary-url": cleanupSummaryFlag,
	}); err != nil {
		return err
	}

	cfg, err := loadAppConfig(cleanupConfigFlag, cleanupDirFlag)
	if err != nil {
		return err
	}

	a := newApp(cleanupAppFlag, "", cleanupPlatformFlag, cleanupDirFlag, cfg)
	o := orchestrator.New(a, cfg, cleanupSummaryFlag)

	// Cleanup's downloads reconciliation needs the known-file list to
	// judge which cached artifacts are still valid; an empty current
	// version is fine here since versions.go/plan.go already covered
	// reachability and this command only prices nothing.
	if _, err := o.FindVersions(cmd.Context(), version.Parse("")); err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	entries, err := o.Cleanup()
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	table := display.NewCleanupTable()
	for _, e := range entries {
		table.UpdateWidths(e.File, string(e.Action), e.Reason)
	}

	fmt.Println(table.HeaderRow())
	fmt.Println(table.SeparatorRow())
	for _, e := range entries {
		fmt.Println(table.FormatRow(e.File, string(e.Action), e.Reason))
	}

	return nil
}
