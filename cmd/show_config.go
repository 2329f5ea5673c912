package main

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wonderdash/wonderdash/internal/app"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display the effective configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig(cmd.Context(), viper.GetViper())
		if err != nil {
			printUserFacing(err)
			return err
		}

		if viper.ConfigFileUsed() != "" {
			fmt.Fprintf(os.Stdout, "Config file: %s\n", viper.ConfigFileUsed())
		} else {
			fmt.Fprintln(os.Stdout, "Config file: (none, defaults and environment)")
		}

		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}
