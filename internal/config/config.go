package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const DefaultPath = "configs/heatbracket.toml"

type Storage struct {
	SqliteFile  string `toml:"sqlite_file"`
	BackupsKeep int    `toml:"backups_keep"`
}

type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type Simulation struct {
	// Seed of the random source, 0 means seeded from the clock.
	Seed int64 `toml:"seed"`
}

type Config struct {
	Storage    Storage    `toml:"storage"`
	Log        Log        `toml:"log"`
	Simulation Simulation `toml:"simulation"`
}

func Default() Config {
	return Config{
		Storage: Storage{
			SqliteFile:  "heatbracket.sqlite",
			BackupsKeep: 3,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// New reads the TOML file at path on top of the defaults. A missing file is
// only tolerated for DefaultPath. Values from the environment (and a .env
// file, if any) win over the file.
func New(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || path != DefaultPath {
			return Config{}, err
		}
	}

	if file := os.Getenv("HEATBRACKET_SQLITE_FILE"); file != "" {
		cfg.Storage.SqliteFile = file
	}
	if level := os.Getenv("HEATBRACKET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if cfg.Storage.BackupsKeep <= 0 {
		cfg.Storage.BackupsKeep = Default().Storage.BackupsKeep
	}
	return cfg, nil
}
