package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STREAMLAB_"

type Config struct {
	Producer  ProducerConfig  `koanf:"producer"`
	Consumer  ConsumerConfig  `koanf:"consumer"`
	Queue     QueueConfig     `koanf:"queue"`
	Storage   StorageConfig   `koanf:"storage"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	LogLevel  string          `koanf:"log_level"`
}

type ProducerConfig struct {
	Author   string        `koanf:"author"`
	Interval time.Duration `koanf:"interval"`
}

type ConsumerConfig struct {
	Files    []string      `koanf:"files"`
	Interval time.Duration `koanf:"interval"`
}

type QueueConfig struct {
	Brokers  []string      `koanf:"brokers"`
	Topic    string        `koanf:"topic"`
	GroupID  string        `koanf:"group_id"`
	PollWait time.Duration `koanf:"poll_wait"`
}

type StorageConfig struct {
	FilePath   string `koanf:"file_path"`
	SQLitePath string `koanf:"sqlite_path"`
	DuckDBPath string `koanf:"duckdb_path"`
}

type DashboardConfig struct {
	RenderInterval time.Duration `koanf:"render_interval"`
	FlowWindow     int           `koanf:"flow_window"`
	StatsWindow    int           `koanf:"stats_window"`
}

// Default is the configuration used when config.yaml is absent. Paths mirror
// the producer's data directory so a consumer started next to it finds the
// same files.
func Default() Config {
	return Config{
		Producer: ProducerConfig{
			Author:   "demo",
			Interval: 3 * time.Second,
		},
		Consumer: ConsumerConfig{
			Files:    []string{"data/messages.jsonl"},
			Interval: 5 * time.Second,
		},
		Queue: QueueConfig{
			Brokers:  []string{"localhost:9092"},
			Topic:    "streamlab-messages",
			GroupID:  "streamlab-consumers",
			PollWait: 2 * time.Second,
		},
		Storage: StorageConfig{
			FilePath:   "data/messages.jsonl",
			SQLitePath: "data/messages.sqlite",
			DuckDBPath: "data/messages.duckdb",
		},
		Dashboard: DashboardConfig{
			RenderInterval: 2 * time.Second,
			FlowWindow:     50,
			StatsWindow:    30,
		},
		LogLevel: "info",
	}
}

// Load reads config.yaml if present and applies STREAMLAB_* environment
// overrides (double underscore separates sections, e.g.
// STREAMLAB_QUEUE__GROUP_ID). A missing file falls back to defaults; an
// unreadable or unparseable one is fatal to the caller.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
