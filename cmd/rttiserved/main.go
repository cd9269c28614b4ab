// Command rttiserved hosts a process-wide MetaDatabase and pool
// registry behind the rttiapi gRPC surface and a plain HTTP health/
// metrics endpoint, the narrowed single-binary-server counterpart of
// the teacher's cmd/warren manager mode: one process owning the
// shared registries that cmd/rttictl queries remotely.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/raft"
	"github.com/spf13/cobra"

	"github.com/metacore/reflect/pkg/database"
	"github.com/metacore/reflect/pkg/log"
	"github.com/metacore/reflect/pkg/metrics"
	"github.com/metacore/reflect/pkg/pool"
	"github.com/metacore/reflect/pkg/poolcfg"
	"github.com/metacore/reflect/pkg/rttiapi"
	"github.com/metacore/reflect/pkg/transaction"

	// Side-effect import: registers the core native scalar traits
	// (bool/numeric/text) before anything in the process constructs an
	// Atom, the same registration-at-startup shape spec §6 calls for.
	_ "github.com/metacore/reflect/pkg/rtti/traits"
)

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
	Use:     "rttiserved",
	Short:   "Host a MetaDatabase and pool registry behind gRPC and HTTP",
	Version: Version,
	RunE:    runServe,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("rttiserved version %s\nCommit: %s\n", Version, Commit))

	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.Flags().String("grpc-addr", "localhost:7700", "rttiapi gRPC listen address")
	rootCmd.Flags().String("http-addr", "localhost:7701", "health/metrics HTTP listen address")
	rootCmd.Flags().String("pool-config", "", "Optional YAML pool bootstrap config (defaults to poolcfg.Default())")
	rootCmd.Flags().String("snapshot-db", "", "Optional bbolt file persisting mount/unmount publication metadata")
	rootCmd.Flags().Bool("raft-enable", false, "Replicate mount/unmount publication events through a single-node raft cluster")
	rootCmd.Flags().String("raft-node-id", "node1", "Raft local server ID (requires --raft-enable)")
	rootCmd.Flags().String("raft-bind-addr", "127.0.0.1:7702", "Raft transport bind address (requires --raft-enable)")
	rootCmd.Flags().String("raft-data-dir", "", "Raft log/stable/snapshot store directory (requires --raft-enable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	asJSON, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: asJSON})
	metrics.SetVersion(Version)

	logger := log.WithComponent("rttiserved")

	poolPath, _ := cmd.Flags().GetString("pool-config")
	cfg := poolcfg.Default()
	if poolPath != "" {
		loaded, err := poolcfg.Load(poolPath)
		if err != nil {
			return fmt.Errorf("rttiserved: load pool config: %w", err)
		}
		cfg = loaded
	}
	if _, err := poolcfg.Bootstrap(cfg, pool.Global); err != nil {
		return fmt.Errorf("rttiserved: bootstrap pools: %w", err)
	}
	metrics.RegisterComponent("pool_registry", true, "bootstrapped")

	var snap *database.SnapshotStore
	if snapPath, _ := cmd.Flags().GetString("snapshot-db"); snapPath != "" {
		s, err := database.OpenSnapshotStore(snapPath)
		if err != nil {
			return fmt.Errorf("rttiserved: open snapshot store: %w", err)
		}
		defer s.Close()
		snap = s
	}
	db := database.New(snap)
	metrics.RegisterComponent("database", true, "ready")

	var presence *transaction.Transaction
	var replicated *database.ReplicatedDatabase
	if enabled, _ := cmd.Flags().GetBool("raft-enable"); enabled {
		nodeID, _ := cmd.Flags().GetString("raft-node-id")
		bindAddr, _ := cmd.Flags().GetString("raft-bind-addr")
		dataDir, _ := cmd.Flags().GetString("raft-data-dir")
		if dataDir == "" {
			dataDir = filepath.Join(os.TempDir(), "rttiserved-raft-"+nodeID)
		}

		fsm := database.NewReplicatedFSM()
		raftNode, err := database.BootstrapRaftNode(database.RaftNodeConfig{
			NodeID:   nodeID,
			BindAddr: bindAddr,
			DataDir:  dataDir,
		}, fsm)
		if err != nil {
			return fmt.Errorf("rttiserved: bootstrap raft node: %w", err)
		}
		replicated = database.NewReplicatedDatabase(db, raftNode)
		metrics.RegisterComponent("raft", true, "bootstrapped")

		// A freshly bootstrapped single-node cluster takes one election
		// round to become its own leader; wait for that rather than
		// racing raftNode.Apply against it (mirrors manager.go's IsLeader
		// gate on writes, just polled instead of caller-checked).
		leaderDeadline := time.Now().Add(5 * time.Second)
		for raftNode.State() != raft.Leader && time.Now().Before(leaderDeadline) {
			time.Sleep(50 * time.Millisecond)
		}
		if raftNode.State() != raft.Leader {
			return fmt.Errorf("rttiserved: raft node %q did not become leader within %s", nodeID, 5*time.Second)
		}

		// Mounting an empty "process" namespace through the replicated
		// registrar is what actually drives a command through raft's
		// log/stable stores on startup, proving the replication path
		// end to end rather than leaving it unexercised.
		presence = transaction.New("process", 0)
		if err := presence.LoadAndMount(replicated, nil); err != nil {
			return fmt.Errorf("rttiserved: mount process presence: %w", err)
		}
		logger.Info().Str("raft_bind_addr", bindAddr).Str("raft_data_dir", dataDir).Msg("raft replication enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := rttiapi.NewServer(db, pool.Global)
	grpcAddr, _ := cmd.Flags().GetString("grpc-addr")
	grpcErr := make(chan error, 1)
	go func() { grpcErr <- srv.Serve(ctx, grpcAddr) }()

	httpAddr, _ := cmd.Flags().GetString("http-addr")
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/readyz", metrics.ReadyHandler())
	mux.HandleFunc("/livez", metrics.LivenessHandler())
	httpServer := &http.Server{Addr: httpAddr, Handler: mux}
	httpErr := make(chan error, 1)
	go func() { httpErr <- httpServer.ListenAndServe() }()

	logger.Info().Str("grpc_addr", grpcAddr).Str("http_addr", httpAddr).Msg("rttiserved started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if presence != nil {
			_ = presence.UnmountAndUnload(replicated, nil)
		}
		return nil
	case err := <-grpcErr:
		cancel()
		return fmt.Errorf("rttiserved: grpc server: %w", err)
	case err := <-httpErr:
		if err == http.ErrServerClosed {
			return nil
		}
		cancel()
		return fmt.Errorf("rttiserved: http server: %w", err)
	}
}
