// Package main implements the optalcp CLI - a thin command-line
// surface over internal/solver for solving, propagating, and printing
// version information against an external optalcp solver process or
// endpoint.
//
// This file is the entry point and root command; solve.go and
// propagate.go hold the solve/propagate subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"optalcp/internal/config"
	"optalcp/internal/logging"
	"optalcp/internal/params"
	"optalcp/internal/solver"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Logger
	logger *zap.Logger

	// cliParams accumulates catalog options recognized ahead of
	// cobra's own flag parsing (params.Catalog's worker-prefixed long
	// options are not expressible as pflag flags).
	cliParams params.Parameters

	// cfg is the loaded (or default) client configuration, available
	// to subcommands after PersistentPreRunE runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "optalcp",
	Short: "optalcp - client for the optalcp constraint-based scheduling solver",
	Long: `optalcp drives an external optalcp solver process (or WebSocket
endpoint) over its line-delimited JSON protocol: it sends a model plus
parameters, and streams back solutions, bounds, and log output as
they arrive.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}

		path := configPath
		if path == "" {
			path = filepath.Join(ws, ".optalcp", "config.yaml")
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: <workspace>/.optalcp/config.yaml); its solver path is used when --solverPath is not given")

	rootCmd.AddCommand(versionCmd, solveCmd, propagateCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client name and version sent in the solver handshake",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s\n", cfg.Name, cfg.Version)
		return nil
	},
}

func main() {
	catalogArgs, rest := splitCatalogArgs(os.Args[1:])
	if len(catalogArgs) > 0 {
		res, err := params.ParseCLI(catalogArgs, params.ParseOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cliParams = res.Parameters
	}

	for _, tok := range rest {
		if tok == "--optalcpVersion" {
			printSolverVersion()
			os.Exit(0)
		}
	}

	rootCmd.SetArgs(rest)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printSolverVersion resolves the external solver endpoint and execs it
// for its own reported version, rather than printing this client's
// hardcoded build string. main calls it before cobra parses its flags,
// so --workspace and --config are not applied here: the config file is
// read from .optalcp/config.yaml under the current directory.
func printSolverVersion() {
	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	path := configPath
	if path == "" {
		path = filepath.Join(ws, ".optalcp", "config.yaml")
	}
	loadedCfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "optalcp: failed to load config: %v\n", err)
		os.Exit(1)
	}

	solverPath := cliParams.SolverPath
	if solverPath == nil && loadedCfg.Solver.Path != "" {
		solverPath = &loadedCfg.Solver.Path
	}

	endpoint, err := solver.Discover(solverPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "optalcp: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	version, err := solver.QueryVersion(ctx, endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "optalcp: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(version)
}
