// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsriver/internal/collect"
	"github.com/pdiddy/newsriver/internal/ledger"
	"github.com/pdiddy/newsriver/internal/logging"
	"github.com/pdiddy/newsriver/internal/registry"
	"github.com/pdiddy/newsriver/internal/sink"
	"github.com/pdiddy/newsriver/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "newsriver/0.1"

	apiKeySecret = "eventregistry-api-key"
)

// addFilterFlags registers the query filter flags shared by every
// collection subcommand.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("keywords", "", "keyword filters (comma-separated, all must match)")
	cmd.Flags().String("concepts", "", "concept filters (comma-separated, all must match)")
	cmd.Flags().String("categories", "", "category filters (comma-separated, all must match)")
	cmd.Flags().String("sources", "", "news source filters (comma-separated, any may match)")
	cmd.Flags().String("languages", "", "language codes (comma-separated, any may match)")
	cmd.Flags().String("date-start", "", "earliest date to collect (YYYY-MM-DD)")
	cmd.Flags().String("date-end", "", "latest date to collect (YYYY-MM-DD)")
	cmd.Flags().String("query-file", "", "load query filters from a saved YAML query file")
	cmd.Flags().String("save-query", "", "save this run's filters and summary to a YAML query file")
}

// addFetchFlags registers the fetch shaping flags.
func addFetchFlags(cmd *cobra.Command, defaultSort string) {
	cmd.Flags().String("sort-by", defaultSort, "result ordering field")
	cmd.Flags().Bool("sort-asc", true, "sort results in ascending order")
	cmd.Flags().Int("max-items", -1, "maximum records to collect (-1 for unbounded)")
}

// addSaveFlags registers the output flags.
func addSaveFlags(cmd *cobra.Command) {
	cmd.Flags().String("save-to", "", "output file path (empty fetches without saving)")
	cmd.Flags().String("format", "line", "output layout: line (one record per line) or array (single JSON array)")
}

// splitList splits a comma-separated flag value into trimmed, non-empty
// entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// queryFromFlags builds the query from the filter flags. When --query-file
// is set its filters form the base; flags given explicitly still override.
func queryFromFlags(cmd *cobra.Command) (registry.Query, error) {
	var q registry.Query

	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		qf, err := collect.ReadQueryFile(path)
		if err != nil {
			return q, err
		}
		q = qf.Filters.ToQuery()
	}

	lists := map[string]*[]string{
		"keywords":   &q.Keywords,
		"concepts":   &q.Concepts,
		"categories": &q.Categories,
		"sources":    &q.Sources,
		"languages":  &q.Languages,
	}
	for name, dst := range lists {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			*dst = splitList(v)
		}
	}
	if cmd.Flags().Changed("date-start") {
		q.DateStart, _ = cmd.Flags().GetString("date-start")
	}
	if cmd.Flags().Changed("date-end") {
		q.DateEnd, _ = cmd.Flags().GetString("date-end")
	}
	return q, nil
}

// fetchFromFlags builds the fetch options from the shaping flags.
func fetchFromFlags(cmd *cobra.Command) registry.FetchOptions {
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortAsc, _ := cmd.Flags().GetBool("sort-asc")
	maxItems, _ := cmd.Flags().GetInt("max-items")
	return registry.FetchOptions{SortBy: sortBy, SortAsc: sortAsc, MaxItems: maxItems}
}

// saveFromFlags builds the save options from the output flags.
func saveFromFlags(cmd *cobra.Command) (collect.SaveOptions, error) {
	path, _ := cmd.Flags().GetString("save-to")
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := sink.ParseFormat(formatStr)
	if err != nil {
		return collect.SaveOptions{}, err
	}
	return collect.SaveOptions{Path: path, Format: format}, nil
}

// resolveAPIKey finds the Event Registry API key: the --api-key flag wins,
// then the NEWSRIVER_API_KEY environment variable or config file, then the
// .secrets/ directory.
func resolveAPIKey(cmd *cobra.Command) (string, error) {
	key, _ := cmd.Flags().GetString("api-key")
	if key == "" {
		key = viper.GetString("api_key")
	}
	key = secretDefault(apiKeySecret, key)
	if key == "" {
		return "", fmt.Errorf("an Event Registry API key is required: pass --api-key, set NEWSRIVER_API_KEY, or add .secrets/%s", apiKeySecret)
	}
	return key, nil
}

// newCollector builds the collector from the persistent connection flags.
func newCollector(cmd *cobra.Command) (*collect.Collector, error) {
	apiKey, err := resolveAPIKey(cmd)
	if err != nil {
		return nil, err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	logLevel, _ := cmd.Flags().GetString("log-level")

	client := registry.New(types.RegistryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL:    viper.GetString("base_url"),
		APIKey:     apiKey,
		MaxRetries: maxRetries,
	})
	return collect.New(client, logging.New(logLevel)), nil
}

// finishRun handles the post-collection bookkeeping shared by the
// collection subcommands: saving the query file and recording the run in
// the ledger.
func finishRun(cmd *cobra.Command, command string, q registry.Query, opts registry.FetchOptions, outputPath string, sum collect.Summary, started time.Time) error {
	if path, _ := cmd.Flags().GetString("save-query"); path != "" {
		if err := collect.WriteQueryFile(path, q, opts, sum); err != nil {
			return fmt.Errorf("saving query file: %w", err)
		}
	}
	return recordRun(cmd.Context(), cmd, command, q, outputPath, sum, started)
}

// recordRun appends the run to the ledger database when one is configured.
func recordRun(ctx context.Context, cmd *cobra.Command, command string, q registry.Query, outputPath string, sum collect.Summary, started time.Time) error {
	path, _ := cmd.Flags().GetString("ledger")
	if path == "" {
		path = viper.GetString("ledger")
	}
	if path == "" {
		return nil
	}

	l, err := ledger.Open(types.LedgerConfig{Path: path})
	if err != nil {
		return fmt.Errorf("opening run ledger: %w", err)
	}
	defer l.Close()

	return l.RecordRun(ctx, ledger.Run{
		Command:     command,
		Filters:     q,
		OutputPath:  outputPath,
		Records:     sum.Written,
		ResumedFrom: sum.ResumedFrom,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	})
}
