/*
Package log provides structured logging for the reflection core using
zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific loggers, configurable levels, and helper functions for
common logging patterns. All logs include timestamps and support
filtering by severity level.

# Usage

Initializing the logger:

	import "github.com/metacore/reflect/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

Simple logging:

	log.Info("pool registry initialized")
	log.Debug("checking chunk availability")
	log.Warn("pool cleared with leaked blocks")
	log.Error("failed to mount namespace")
	log.Fatal("cannot start without a database") // exits process

Component loggers, one per subsystem exactly as the pool, transaction,
and database packages use them:

	poolLog := log.WithComponent("pool")
	poolLog.Info().Int("chunk_count", 4).Msg("pool grown")

	txnLog := log.WithNamespace("UnitTest_Input")
	txnLog.Info().Msg("transaction mounted")

	objLog := log.WithObjectPath("UnitTest_Input/Toto")
	objLog.Debug().Msg("object loaded")

# Levels

Debug is for high-volume tracing (chunk allocation, linearization
visits); Info for lifecycle transitions (pool grown, transaction
mounted); Warn for recoverable anomalies (pool cleared with leaks);
Error for operation failures a caller should investigate; Fatal for
unrecoverable startup errors only — it calls os.Exit(1).

Programming-error diagnostics (spec §7: wrong traits cast, double-load,
name collision on mount) are not logged through this package — they
panic via pkg/rtti.Fatalf with the offending type name, object path, and
call site attached directly to the panic value.
*/
package log
