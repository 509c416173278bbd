package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsriver/internal/collect"
	"github.com/pdiddy/newsriver/internal/sink"
)

var eventBatchCmd = &cobra.Command{
	Use:   "event-articles-from-file",
	Short: "Collect articles for every event listed in a file",
	Long: `Event-articles-from-file reads event identifiers from a file and collects
each event's articles in turn, saving them to <save-dir>/<event-id>.json.
The file is either the events command's own line output (--ids-type events,
one event JSON object per line) or a plain list (--ids-type plain, one
identifier per line). An error on one event stops the batch; results for
events already processed stay on disk.`,
	RunE: runEventBatch,
}

func init() {
	eventBatchCmd.Flags().String("ids-file", "", "file of event identifiers (required)")
	eventBatchCmd.Flags().String("ids-type", "events", "identifier file layout: events or plain")
	eventBatchCmd.Flags().String("save-dir", "", "directory for per-event output files")
	addFilterFlags(eventBatchCmd)
	addFetchFlags(eventBatchCmd, "rel")
	eventBatchCmd.Flags().String("format", "line", "output layout: line (one record per line) or array (single JSON array)")
	rootCmd.AddCommand(eventBatchCmd)
}

func runEventBatch(cmd *cobra.Command, args []string) error {
	idsFile, _ := cmd.Flags().GetString("ids-file")
	if idsFile == "" {
		return fmt.Errorf("provide an event identifiers file with --ids-file")
	}
	idsTypeStr, _ := cmd.Flags().GetString("ids-type")
	idsType, err := collect.ParseIDFileType(idsTypeStr)
	if err != nil {
		return err
	}
	saveDir, _ := cmd.Flags().GetString("save-dir")
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := sink.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	c, err := newCollector(cmd)
	if err != nil {
		return err
	}
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	opts := fetchFromFlags(cmd)

	started := time.Now()
	results, err := c.EventArticlesFromFile(cmd.Context(), idsFile, idsType, q, opts, saveDir, format)
	if err != nil {
		return err
	}

	total := 0
	for _, r := range results {
		fmt.Printf("%-40s  %d article(s)\n", r.EventID, len(r.Articles))
		total += len(r.Articles)
	}
	fmt.Printf("\ncollected %d article(s) across %d event(s)\n", total, len(results))

	sum := collect.Summary{Written: total}
	return finishRun(cmd, "event-articles-from-file", q, opts, saveDir, sum, started)
}
