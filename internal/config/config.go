// Package config reads gardenmap.yaml, GARDENMAP_* environment variables and bound flags into
// one Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gardenmap/internal/mapview"
	"gardenmap/internal/model"
	"gardenmap/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "GARDENMAP"
	FileName  = "gardenmap"
)

type Config struct {
	Store  StoreConfig  `mapstructure:"store" yaml:"store" json:"store"`
	Web    WebConfig    `mapstructure:"web" yaml:"web" json:"web"`
	Map    MapConfig    `mapstructure:"map" yaml:"map" json:"map"`
	Log    LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-" json:"file,omitempty"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
	URL     string `mapstructure:"url" yaml:"url" json:"url"`
	Seed    bool   `mapstructure:"seed" yaml:"seed" json:"seed"`
	Watch   bool   `mapstructure:"watch" yaml:"watch" json:"watch"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

type MapConfig struct {
	Center model.LatLng `mapstructure:"center" yaml:"center" json:"center"`
	Zoom   int          `mapstructure:"zoom" yaml:"zoom" json:"zoom"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" json:"pretty"`
}

// New returns a viper instance with every key defaulted and environment lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	vp := mapview.DefaultViewport()
	v.SetDefault("store.backend", store.BackendSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.url", "")
	v.SetDefault("store.seed", true)
	v.SetDefault("store.watch", true)
	v.SetDefault("web.addr", "127.0.0.1:5173")
	v.SetDefault("map.center.lat", vp.Center.Lat)
	v.SetDefault("map.center.lng", vp.Center.Lng)
	v.SetDefault("map.zoom", vp.Zoom)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("output.format", "table")
	v.SetDefault("output.pretty", false)
}

// Load reads file (or searches the default locations when file is "") and decodes the result.
// A missing config file is only an error when file names one explicitly.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "gardenmap"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "gardenmap"))
	}
	return append(dirs, ".")
}

func (c Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if !slices.Contains(store.Backends(), c.Store.Backend) {
		return fmt.Errorf("config: store.backend %q (want one of %s)", c.Store.Backend, strings.Join(store.Backends(), ", "))
	}
	if c.Store.Backend == store.BackendRemote && strings.TrimSpace(c.Store.URL) == "" {
		return errors.New("config: store.url is required for the remote backend")
	}
	if !c.Map.Center.Valid() || c.Map.Zoom < 1 || c.Map.Zoom > 22 {
		return fmt.Errorf("config: map viewport (%v, zoom %d) out of range", c.Map.Center, c.Map.Zoom)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q (want text or json)", c.Log.Format)
	}
	switch c.Output.Format {
	case "json", "edn", "table":
	default:
		return fmt.Errorf("config: output.format %q (want json, edn or table)", c.Output.Format)
	}
	return nil
}

// Logger builds the process logger. Logs go to w (stderr for the CLI).
func (c Config) Logger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func (c Config) StoreOptions(log logrus.FieldLogger) store.Options {
	return store.Options{
		Backend: strings.ToLower(strings.TrimSpace(c.Store.Backend)),
		Path:    c.Store.Path,
		URL:     c.Store.URL,
		Logger:  log,
	}
}

func (c Config) Viewport() mapview.Viewport {
	return mapview.Viewport{Center: c.Map.Center, Zoom: c.Map.Zoom}
}
