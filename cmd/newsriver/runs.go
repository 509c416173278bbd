package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsriver/internal/ledger"
	"github.com/pdiddy/newsriver/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past collection runs from the ledger",
	Long: `Runs lists recent collection runs recorded in the run ledger, newest first.
The ledger is only written when a ledger path is configured.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("command", "", "only list runs of this subcommand")
	runsCmd.Flags().Int("max-results", 20, "maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("ledger")
	if path == "" {
		path = viper.GetString("ledger")
	}
	if path == "" {
		return fmt.Errorf("no run ledger configured: pass --ledger or set ledger in the config file")
	}
	command, _ := cmd.Flags().GetString("command")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	l, err := ledger.Open(types.LedgerConfig{Path: path, MaxResults: maxResults})
	if err != nil {
		return err
	}
	defer l.Close()

	runs, err := l.ListRuns(cmd.Context(), command)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-26s  %-19s  %-8s  %-10s  %s\n",
		"ID", "COMMAND", "STARTED", "RECORDS", "RESUMED", "OUTPUT")
	for _, r := range runs {
		resumed := r.ResumedFrom
		if resumed == "" {
			resumed = "-"
		}
		output := r.OutputPath
		if output == "" {
			output = "-"
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-26s  %-19s  %-8d  %-10s  %s\n",
			r.ID, r.Command, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Records, resumed, output)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}
