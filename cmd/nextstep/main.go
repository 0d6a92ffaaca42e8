package main

import (
	"os"

	"github.com/nextstepguidance/nextstep/cmd/nextstep/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "nextstep",
		Short:        "Operator tools for NextStep Guidance",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.PromoteCmd())
	rootCmd.AddCommand(cmd.PruneTokensCmd())
	rootCmd.AddCommand(cmd.CSSCmd())
	rootCmd.AddCommand(cmd.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
