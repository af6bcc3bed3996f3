// Package config loads the cubetables settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/gocube_tables/internal/tablefile"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// DirName is the per-user directory under the home directory.
const DirName = ".cubetables"

// Config controls where tables are written and how they are generated.
type Config struct {
	// OutputDir is the directory relative table file names resolve against.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Files Files `json:"files" yaml:"files"`

	// MaxDepth is the longest sequence the path search explores.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// MaxSequencesPerLength caps recorded sequences per pair and length.
	// Zero keeps all of them.
	MaxSequencesPerLength int `json:"max_sequences_per_length" yaml:"max_sequences_per_length"`

	// Compress appends ".xz" to output names that do not already carry it.
	Compress bool `json:"compress" yaml:"compress"`

	// Parallel runs independent table builds concurrently in "generate all".
	Parallel bool `json:"parallel" yaml:"parallel"`

	// Record catalogs each generated table in the SQLite run database.
	Record bool `json:"record" yaml:"record"`

	// DBPath is the run database. Empty means ~/.cubetables/runs.db.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Files names each table file.
type Files struct {
	Movement       string `json:"movement" yaml:"movement"`
	EdgeDistance   string `json:"edge_distance" yaml:"edge_distance"`
	CornerDistance string `json:"corner_distance" yaml:"corner_distance"`
	EdgePath       string `json:"edge_path" yaml:"edge_path"`
	CornerPath     string `json:"corner_path" yaml:"corner_path"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		OutputDir: ".",
		Files: Files{
			Movement:       "movement_table.json",
			EdgeDistance:   "edge_distance_table.json",
			CornerDistance: "corner_distance_table.json",
			EdgePath:       "edge_path_table.json",
			CornerPath:     "corner_path_table.json",
		},
		MaxDepth:              20,
		MaxSequencesPerLength: 0,
		Compress:              false,
		Parallel:              false,
		Record:                true,
		DBPath:                "",
	}
}

// DefaultPath returns ~/.cubetables/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Load reads a YAML config file. Fields absent from the file keep their
// defaults. A missing file at the default location is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the parent directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the config for values the generator cannot use.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.MaxSequencesPerLength < 0 {
		return fmt.Errorf("%w: max_sequences_per_length must not be negative", ErrInvalidConfig)
	}
	for _, f := range []struct{ name, value string }{
		{"files.movement", c.Files.Movement},
		{"files.edge_distance", c.Files.EdgeDistance},
		{"files.corner_distance", c.Files.CornerDistance},
		{"files.edge_path", c.Files.EdgePath},
		{"files.corner_path", c.Files.CornerPath},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, f.name)
		}
	}
	return nil
}

// Resolve turns a configured file name into a full output path.
func (c Config) Resolve(name string) string {
	if c.Compress && !tablefile.Compressed(name) {
		name += ".xz"
	}
	if filepath.IsAbs(name) || c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
