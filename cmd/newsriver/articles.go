package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Collect articles matching the query filters",
	Long: `Articles collects news articles matching the query filters and appends them
to the output file. When the output file already has records, collection
resumes from the date of its last record instead of the configured start
date, so repeated runs pick up where they left off.`,
	RunE: runArticles,
}

func init() {
	addFilterFlags(articlesCmd)
	addFetchFlags(articlesCmd, "date")
	addSaveFlags(articlesCmd)
	rootCmd.AddCommand(articlesCmd)
}

func runArticles(cmd *cobra.Command, args []string) error {
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
	sum, err := c.Articles(cmd.Context(), q, opts, save)
	if err != nil {
		return err
	}

	if sum.ResumedFrom != "" {
		fmt.Printf("resumed from %s\n", sum.ResumedFrom)
	}
	fmt.Printf("collected %d article(s)\n", sum.Written)

	return finishRun(cmd, "articles", q, opts, save.Path, sum, started)
}
