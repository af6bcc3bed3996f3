// Package cli implements the command-line interface for cubetables.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_tables/internal/config"
	"github.com/SeamusWaldron/gocube_tables/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	cfg    = config.DefaultConfig()
	logger = logrus.New()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubetables",
	Short: "Cube position table generator",
	Long: `cubetables precomputes lookup tables for a 3x3x3 cube:

  movement   where each face turn sends every cell
  distance   fewest moves between two edge (or corner) positions
  path       every admissible move sequence between two positions, by length

Tables are written as JSON (optionally xz-compressed) and each generation is
recorded in a local SQLite catalog.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose})
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.WarnLevel)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.cubetables/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Run catalog database (default: ~/.cubetables/runs.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// getDBPath returns the catalog path from flag, config or default.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return storage.DefaultDBPath()
}

func openCatalog() (*storage.DB, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run catalog: %w", err)
	}
	logger.WithField("path", path).Debug("run catalog opened")
	return db, nil
}
