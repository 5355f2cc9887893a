package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/sheet/internal/config"
	"github.com/hargabyte/sheet/internal/store"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the .sheet directory and storage",
	Long: `Initialize the .sheet directory in the current directory.

This writes .sheet/config.yaml with the default settings and creates the
storage selected by --backend. Edit config.yaml to change the cell naming
policy or the output format.

Examples:
  sheet init                  # SQLite storage in .sheet/sheet.db
  sheet init --backend dolt   # Versioned storage, one commit per save
  sheet init --backend yaml   # One YAML file per sheet`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initBackend string

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initBackend, "backend", "", "Storage backend (sqlite|dolt|bolt|yaml, default: sqlite)")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configDir := filepath.Join(cwd, config.ConfigDirName)
	configFile := filepath.Join(configDir, config.ConfigFileName)

	if _, err := os.Stat(configFile); err == nil {
		relPath, _ := filepath.Rel(cwd, configDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config path: %w", err)
	}

	cfg := config.DefaultConfig()
	if initBackend != "" {
		cfg.Storage = config.StorageConfig{Backend: initBackend}
		cfg = config.Merge(cfg, config.DefaultConfig())
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if _, err := config.Save(cwd, cfg); err != nil {
		return err
	}

	backend, err := store.Open(configDir, cfg.Storage)
	if err != nil {
		return fmt.Errorf("initializing %s storage: %w", cfg.Storage.Backend, err)
	}
	defer backend.Close()

	newLogger(slog.LevelWarn).Debug("created storage", "path", cfg.StoragePath(configDir))

	relPath, _ := filepath.Rel(cwd, configDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized sheet (%s storage) at %s\n", cfg.Storage.Backend, relPath)
	return nil
}
