package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wonderdash/wonderdash/internal/app"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the live terminal dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context())
	},
}

func runDashboard(ctx context.Context) error {
	application, err := app.BuildApplicationFromViper(ctx, viper.GetViper())
	if err != nil {
		printUserFacing(err)
		return err
	}

	if err := application.Run(ctx); err != nil {
		printUserFacing(err)
		return err
	}
	return nil
}
