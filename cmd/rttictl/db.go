package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/metacore/reflect/pkg/rttiapi"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Query a running rttiserved's MetaDatabase",
}

var dbFindCmd = &cobra.Command{
	Use:   "find namespace/name",
	Short: "Resolve a published object by its PathName",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBFind,
}

var dbListCmd = &cobra.Command{
	Use:   "list namespace",
	Short: "List exported names within one namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBList,
}

func init() {
	dbCmd.AddCommand(dbFindCmd)
	dbCmd.AddCommand(dbListCmd)
}

func runDBFind(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	c, err := rttiapi.NewClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	obj, err := c.FindObjectByPath(ctx, args[0])
	if err != nil {
		return fmt.Errorf("rttictl: find %q: %w", args[0], err)
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(obj)
	if err != nil {
		return fmt.Errorf("rttictl: render object: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runDBList(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	c, err := rttiapi.NewClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	list, err := c.ListExported(ctx, args[0])
	if err != nil {
		return fmt.Errorf("rttictl: list %q: %w", args[0], err)
	}
	for _, v := range list.GetValues() {
		fmt.Println(v.GetStringValue())
	}
	return nil
}
