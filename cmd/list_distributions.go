package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	awsadapter "github.com/wonderdash/wonderdash/internal/adapters/platform/aws"
	"github.com/wonderdash/wonderdash/internal/app"
	"github.com/wonderdash/wonderdash/internal/core/ports"
	"github.com/wonderdash/wonderdash/internal/log"
)

var listDistributionsCmd = &cobra.Command{
	Use:   "list-distributions",
	Short: "List CloudFront distributions for the configured profile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := app.LoadConfig(ctx, viper.GetViper())
		if err != nil {
			printUserFacing(err)
			return err
		}

		logger, err := log.NewLogger(log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat})
		if err != nil {
			return err
		}

		provider, err := awsadapter.NewProvider(ctx, awsadapter.Options{
			Region:       cfg.AWS.Region,
			Profile:      cfg.AWS.Profile,
			MetricPeriod: cfg.MetricPeriod(),
			MetricWindow: cfg.MetricWindow(),
			RateLimitRPS: cfg.Settings.APIRateLimitRPS,
		}, ports.SystemClock{}, logger)
		if err != nil {
			printUserFacing(err)
			return err
		}

		summaries, err := provider.ListDistributions(ctx)
		if err != nil {
			printUserFacing(err)
			return err
		}

		if len(summaries) == 0 {
			fmt.Fprintln(os.Stdout, "No distributions returned for this account.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\t\tDomain\tOrigins\tAliases\tEnabled")
		for _, summary := range summaries {
			marker := " "
			if summary.ID == cfg.Targets.DistributionID {
				marker = "*"
			}
			aliases := "-"
			if len(summary.Aliases) > 0 {
				aliases = strings.Join(summary.Aliases, ", ")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%t\n",
				summary.ID, marker, summary.DomainName, summary.OriginCount, aliases, summary.Enabled)
		}
		return tw.Flush()
	},
}
