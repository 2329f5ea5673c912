package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/wonderdash/wonderdash/internal/errors"
)

var (
	cfgFile        string
	logLevel       string
	logFormat      string
	awsProfile     string
	awsRegion      string
	distributionID string
	noColor        bool
)

var rootCmd = &cobra.Command{
	Use:   "wonderdash",
	Short: "Terminal dashboard for AWS telemetry and inventory.",
	Long: `WonderDash polls AWS telemetry and inventory APIs (STS, EC2, S3,
CloudFront metrics, CloudWatch Logs) and renders a continuously refreshing
live view. Data is cached per service with a TTL and refreshed in the
background, so the view never blocks on network latency.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func printUserFacing(err error) {
	userMsg, suggestion, _ := apperrors.GetUserFacingMessage(err)
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .wonderdash.yaml in cwd or home)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&awsProfile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().StringVar(&awsRegion, "region", "", "AWS region")
	rootCmd.PersistentFlags().StringVar(&distributionID, "distribution-id", "", "CloudFront distribution id for the delivery section")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("settings.no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("aws.profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("aws.region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("targets.distribution_id", rootCmd.PersistentFlags().Lookup("distribution-id"))

	viper.SetEnvPrefix("WONDERDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(listDistributionsCmd)
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".wonderdash")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}
