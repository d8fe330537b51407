package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCommand := &cobra.Command{
		Use:           "serendipity",
		Short:         "Generate and manage uplifting AI content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "path to the configuration file")

	rootCommand.AddCommand(newGenerateCommand())
	rootCommand.AddCommand(newCacheCommand())
	rootCommand.AddCommand(newArchiveCommand())
	rootCommand.AddCommand(newReportCommand())

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
