package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emeka/petrocms/internal/config"
	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/jobs"
	"github.com/emeka/petrocms/internal/newsfeed"
	"github.com/emeka/petrocms/internal/pricing"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job <fetch-prices|fetch-news|generate-posts>",
	Short: "Run one scheduled job by hand",
	Long:  `Run one of the scheduled jobs outside the HTTP server, e.g. from a container cron. The invocation is recorded in the job audit trail like any other.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runJob,
}

func init() {
	rootCmd.AddCommand(jobCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	appCfg, err := config.NewAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, appCfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	job, err := buildJob(args[0], appCfg, database)
	if err != nil {
		return err
	}

	result := jobs.NewRunner(database).Execute(ctx, job, "cli")

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.ErrorText)
	}
	return nil
}

func buildJob(name string, appCfg *config.AppConfig, database *db.DB) (jobs.Job, error) {
	switch name {
	case jobs.JobFetchPrices:
		api := pricing.NewClient(appCfg.PriceAPIURL, appCfg.PriceAPIKey)
		return jobs.NewPriceFetchJob(database, api, appCfg.Benchmarks, appCfg.FetchInterval), nil

	case jobs.JobFetchNews:
		scorer, err := newsfeed.NewScorer()
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
		api := newsfeed.NewClient(appCfg.NewsAPIURL, appCfg.NewsAPIKey)
		return jobs.NewNewsFetchJob(database, api, scorer, appCfg.NewsLimit, appCfg.RelevanceThreshold, appCfg.FetchInterval), nil

	case jobs.JobGeneratePosts:
		return jobs.NewPostGenJob(database), nil

	default:
		return nil, fmt.Errorf("unknown job: %s", name)
	}
}
