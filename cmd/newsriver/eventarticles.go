package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsriver/internal/collect"
)

var eventArticlesCmd = &cobra.Command{
	Use:   "event-articles",
	Short: "Collect the articles of a single event",
	Long: `Event-articles collects the articles grouped under one event, identified by
its event URI. Per-event collections always fetch from the beginning; the
resume behavior of the articles and events commands does not apply.`,
	RunE: runEventArticles,
}

func init() {
	eventArticlesCmd.Flags().String("event-id", "", "event URI to collect articles for (required)")
	addFilterFlags(eventArticlesCmd)
	addFetchFlags(eventArticlesCmd, "rel")
	addSaveFlags(eventArticlesCmd)
	rootCmd.AddCommand(eventArticlesCmd)
}

func runEventArticles(cmd *cobra.Command, args []string) error {
	eventID, _ := cmd.Flags().GetString("event-id")
	if eventID == "" {
		return fmt.Errorf("provide an event URI with --event-id")
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
	save, err := saveFromFlags(cmd)
	if err != nil {
		return err
	}

	started := time.Now()
	articles, err := c.EventArticles(cmd.Context(), eventID, q, opts, save)
	if err != nil {
		return err
	}

	fmt.Printf("collected %d article(s) for event %s\n", len(articles), eventID)

	sum := collect.Summary{Written: len(articles)}
	return finishRun(cmd, "event-articles", q, opts, save.Path, sum, started)
}
