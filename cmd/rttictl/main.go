// Command rttictl inspects a running rttiserved process (pool stats,
// database lookups) over its gRPC API, the narrowed CLI counterpart of
// the teacher's cmd/warren. It has no subcommand that runs a
// transaction locally.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metacore/reflect/pkg/log"
)

// Version information, set via ldflags during build, matching the
// teacher's cmd/warren pattern.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rttictl",
	Short:   "Inspect and exercise the reflection/transaction core",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("rttictl version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("addr", "localhost:7700", "rttiserved gRPC address")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(dbCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	asJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: asJSON})
}
