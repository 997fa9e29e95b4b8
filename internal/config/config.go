// Package config loads gymlog settings from defaults, an optional TOML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mmynk/gymlog/internal/storage/remote"
)

const (
	defaultServerAddress   = ":3001"
	defaultDataDir         = "./data"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 10
	defaultLogMaxFiles     = 5
)

var ErrInvalidConfig = errors.New("invalid config")

// StorageMode selects the storage backend. It is fixed for the life of the process.
type StorageMode string

const (
	// ModeLocal keeps data in the on-device key-value store.
	ModeLocal StorageMode = "local"
	// ModeFile keeps data in JSON files behind the file service.
	ModeFile StorageMode = "file"
)

// ParseStorageMode accepts "local", "localStorage" and "file", case-insensitively.
func ParseStorageMode(s string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local", "localstorage":
		return ModeLocal, nil
	case "file":
		return ModeFile, nil
	default:
		return "", fmt.Errorf("%w: unknown storage mode %q", ErrInvalidConfig, s)
	}
}

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

type StorageConfig struct {
	Mode StorageMode `toml:"mode"`
	// LocalPath is the database file of the local backend.
	LocalPath string `toml:"local_path"`
	// FileServiceURL is the API root of the file service, including /api.
	FileServiceURL string        `toml:"file_service_url"`
	Timeout        time.Duration `toml:"timeout"`
	// AuthSecret signs requests to the file service. Empty sends none.
	AuthSecret string `toml:"auth_secret"`
}

type ServerConfig struct {
	Address         string        `toml:"address"`
	DataDir         string        `toml:"data_dir"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// AuthSecret enables bearer token checks on /api. Empty leaves it open.
	AuthSecret string `toml:"auth_secret"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

// LoadOptions controls where Load looks. A non-nil Env replaces the process
// environment entirely.
type LoadOptions struct {
	ConfigPath string
	Env        map[string]string
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Mode:           ModeLocal,
			FileServiceURL: remote.DefaultBaseURL,
			Timeout:        remote.DefaultTimeout,
		},
		Server: ServerConfig{
			Address:         defaultServerAddress,
			DataDir:         defaultDataDir,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
		},
	}
}

func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	configPath, err := resolveConfigPath(opts)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}
	if err := loadAndApplyFile(configPath, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg, opts); err != nil {
		return Config{}, err
	}

	if cfg.Storage.LocalPath == "" {
		dataHome, err := dataHome(opts)
		if err != nil {
			return Config{}, err
		}
		cfg.Storage.LocalPath = filepath.Join(dataHome, "gymlog", "local.db")
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type rawConfig struct {
	Storage *rawStorage `toml:"storage"`
	Server  *rawServer  `toml:"server"`
	Logging *rawLogging `toml:"logging"`
}

type rawStorage struct {
	Mode           *string `toml:"mode"`
	LocalPath      *string `toml:"local_path"`
	FileServiceURL *string `toml:"file_service_url"`
	Timeout        *string `toml:"timeout"`
	AuthSecret     *string `toml:"auth_secret"`
}

type rawServer struct {
	Address         *string `toml:"address"`
	DataDir         *string `toml:"data_dir"`
	ReadTimeout     *string `toml:"read_timeout"`
	WriteTimeout    *string `toml:"write_timeout"`
	ShutdownTimeout *string `toml:"shutdown_timeout"`
	AuthSecret      *string `toml:"auth_secret"`
}

type rawLogging struct {
	Level     *string `toml:"level"`
	File      *string `toml:"file"`
	MaxSizeMB *int    `toml:"max_size_mb"`
	MaxFiles  *int    `toml:"max_files"`
}

func loadAndApplyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse TOML file %q: %v", ErrInvalidConfig, path, err)
	}
	return applyRawConfig(cfg, raw)
}

func applyRawConfig(cfg *Config, raw rawConfig) error {
	if raw.Storage != nil {
		if raw.Storage.Mode != nil {
			mode, err := ParseStorageMode(*raw.Storage.Mode)
			if err != nil {
				return fmt.Errorf("storage.mode: %w", err)
			}
			cfg.Storage.Mode = mode
		}
		setString(raw.Storage.LocalPath, &cfg.Storage.LocalPath)
		setString(raw.Storage.FileServiceURL, &cfg.Storage.FileServiceURL)
		setString(raw.Storage.AuthSecret, &cfg.Storage.AuthSecret)
		if err := setDuration("storage.timeout", raw.Storage.Timeout, &cfg.Storage.Timeout); err != nil {
			return err
		}
	}

	if raw.Server != nil {
		setString(raw.Server.Address, &cfg.Server.Address)
		setString(raw.Server.DataDir, &cfg.Server.DataDir)
		setString(raw.Server.AuthSecret, &cfg.Server.AuthSecret)
		if err := setDuration("server.read_timeout", raw.Server.ReadTimeout, &cfg.Server.ReadTimeout); err != nil {
			return err
		}
		if err := setDuration("server.write_timeout", raw.Server.WriteTimeout, &cfg.Server.WriteTimeout); err != nil {
			return err
		}
		if err := setDuration("server.shutdown_timeout", raw.Server.ShutdownTimeout, &cfg.Server.ShutdownTimeout); err != nil {
			return err
		}
	}

	if raw.Logging != nil {
		setString(raw.Logging.Level, &cfg.Logging.Level)
		setString(raw.Logging.File, &cfg.Logging.File)
		setInt(raw.Logging.MaxSizeMB, &cfg.Logging.MaxSizeMB)
		setInt(raw.Logging.MaxFiles, &cfg.Logging.MaxFiles)
	}

	return nil
}

func applyEnvOverrides(cfg *Config, opts LoadOptions) error {
	// STORAGE_MODE is the name the browser build used.
	for _, key := range []string{"STORAGE_MODE", "GYMLOG_STORAGE_MODE"} {
		if value, ok := lookupEnv(opts, key); ok && value != "" {
			mode, err := ParseStorageMode(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			cfg.Storage.Mode = mode
		}
	}
	if value, ok := lookupEnv(opts, "GYMLOG_LOCAL_PATH"); ok {
		cfg.Storage.LocalPath = value
	}
	if value, ok := lookupEnv(opts, "GYMLOG_FILE_SERVICE_URL"); ok {
		cfg.Storage.FileServiceURL = value
	}
	if err := envDuration(opts, "GYMLOG_TIMEOUT", &cfg.Storage.Timeout); err != nil {
		return err
	}
	// One secret serves both ends when they run on the same machine.
	if value, ok := lookupEnv(opts, "GYMLOG_AUTH_SECRET"); ok {
		cfg.Storage.AuthSecret = value
		cfg.Server.AuthSecret = value
	}

	if value, ok := lookupEnv(opts, "GYMLOG_SERVER_ADDRESS"); ok {
		cfg.Server.Address = value
	}
	if value, ok := lookupEnv(opts, "GYMLOG_DATA_DIR"); ok {
		cfg.Server.DataDir = value
	}
	if err := envDuration(opts, "GYMLOG_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout); err != nil {
		return err
	}

	if value, ok := lookupEnv(opts, "LOG_LEVEL"); ok {
		cfg.Logging.Level = value
	}
	if value, ok := lookupEnv(opts, "LOG_FILE"); ok {
		cfg.Logging.File = value
	}
	if value, ok := lookupEnv(opts, "LOG_MAX_SIZE_MB"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse LOG_MAX_SIZE_MB: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.MaxSizeMB = parsed
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Storage.Mode == ModeFile && cfg.Storage.FileServiceURL == "" {
		return fmt.Errorf("%w: storage.file_service_url is required in file mode", ErrInvalidConfig)
	}
	if cfg.Storage.Timeout < 0 {
		return fmt.Errorf("%w: storage.timeout must not be negative", ErrInvalidConfig)
	}
	if cfg.Server.DataDir == "" {
		return fmt.Errorf("%w: server.data_dir must not be empty", ErrInvalidConfig)
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: logging.max_size_mb must be > 0", ErrInvalidConfig)
	}
	return nil
}

func envDuration(opts LoadOptions, key string, target *time.Duration) error {
	value, ok := lookupEnv(opts, key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, key, err)
	}
	*target = d
	return nil
}

func setDuration(field string, raw *string, target *time.Duration) error {
	if raw == nil {
		return nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, field, err)
	}
	*target = d
	return nil
}

func setString(raw *string, target *string) {
	if raw != nil {
		*target = *raw
	}
}

func setInt(raw *int, target *int) {
	if raw != nil {
		*target = *raw
	}
}

func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	if value, ok := lookupEnv(opts, "GYMLOG_CONFIG_PATH"); ok {
		return value, nil
	}

	configHome, ok := lookupEnv(opts, "XDG_CONFIG_HOME")
	if !ok || configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve user home: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "gymlog", "config.toml"), nil
}

func dataHome(opts LoadOptions) (string, error) {
	if value, ok := lookupEnv(opts, "XDG_DATA_HOME"); ok && value != "" {
		return value, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

func lookupEnv(opts LoadOptions, key string) (string, bool) {
	if opts.Env != nil {
		value, ok := opts.Env[key]
		return value, ok
	}
	return os.LookupEnv(key)
}
