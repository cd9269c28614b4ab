package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/metacore/reflect/pkg/rttiapi"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Query pool diagnostics from a running rttiserved",
}

var poolStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print every registered pool's chunk/block counters",
	RunE:  runPoolStats,
}

func init() {
	poolCmd.AddCommand(poolStatsCmd)
}

func runPoolStats(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	c, err := rttiapi.NewClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	st, err := c.PoolStats(ctx)
	if err != nil {
		return fmt.Errorf("rttictl: fetch pool stats: %w", err)
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	if err != nil {
		return fmt.Errorf("rttictl: render pool stats: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
