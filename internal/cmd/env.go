package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/hargabyte/sheet/internal/config"
	"github.com/hargabyte/sheet/internal/output"
	"github.com/hargabyte/sheet/internal/sheet"
	"github.com/hargabyte/sheet/internal/store"
	"github.com/hargabyte/sheet/internal/workbook"
)

// env is what every sheet command needs once .sheet/ is found.
type env struct {
	cfg       *config.Config
	configDir string
	format    output.Format
	logger    *slog.Logger
	workbook  *workbook.Workbook
}

// loadConfig honours --config, otherwise searches upward from the working
// directory. It returns the .sheet directory the config belongs to.
func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, filepath.Dir(configPath), nil
	}

	configDir, err := config.FindConfigDir(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, "", fmt.Errorf("sheet not initialized: run 'sheet init' first")
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFromPath(filepath.Join(configDir, config.ConfigFileName))
	if err != nil {
		return nil, "", err
	}
	return cfg, configDir, nil
}

// namePolicy builds the cell naming policy from the names section.
func namePolicy(cfg *config.Config) (sheet.NamePolicy, error) {
	return sheet.NewNamePolicy(cfg.Names.Pattern, sheet.NormalizeMode(cfg.Names.Normalize), cfg.Names.Version)
}

// openEnv loads the configuration and opens the storage backend. The
// caller closes env.workbook.
func openEnv(level slog.Level) (*env, error) {
	cfg, configDir, err := loadConfig()
	if err != nil {
		return nil, err
	}

	formatName := cfg.Output.Format
	if outputFormat != "" {
		formatName = outputFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	policy, err := namePolicy(cfg)
	if err != nil {
		return nil, err
	}

	logger := newLogger(level)
	backend, err := store.Open(configDir, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("opened storage", "backend", cfg.Storage.Backend, "path", cfg.StoragePath(configDir))

	return &env{
		cfg:       cfg,
		configDir: configDir,
		format:    format,
		logger:    logger,
		workbook:  workbook.New(backend, policy, workbook.WithLogger(logger)),
	}, nil
}

func (e *env) write(w io.Writer, v interface{}) error {
	return output.Write(w, e.format, v)
}

func cellView(c workbook.Cell) output.CellView {
	return output.NewCellView(c.Name, c.Contents, c.Value, c.Present)
}
