package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Collect events matching the query filters",
	Long: `Events collects clustered news events matching the query filters and appends
them to the output file. When the output file already has records, collection
resumes from the eventDate of its last record.`,
	RunE: runEvents,
}

func init() {
	addFilterFlags(eventsCmd)
	addFetchFlags(eventsCmd, "date")
	addSaveFlags(eventsCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	c, err := newCollector(cmd)
	if err != nil {
		return err
	}
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	opts := fetchFromFlags(cmd)
	save, err := saveFromFlags(cmd)
	if err != nil {
		return err
	}

	started := time.Now()
	sum, err := c.Events(cmd.Context(), q, opts, save)
	if err != nil {
		return err
	}

	if sum.ResumedFrom != "" {
		fmt.Printf("resumed from %s\n", sum.ResumedFrom)
	}
	fmt.Printf("collected %d event(s)\n", sum.Written)

	return finishRun(cmd, "events", q, opts, save.Path, sum, started)
}
