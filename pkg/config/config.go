// Package config loads clipforge settings from config.yml, with secrets
// supplied via .env or the process environment.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yml"
	defaultResultsDir       = "./results"
	defaultAssetsDir        = "./assets"
	defaultDownloadsFile    = "./to_download.txt"
	defaultDatabasePath     = "./clipforge.db"
	defaultResolution       = "1920x1080"
	defaultDevice           = "cpu"
	defaultQuality          = "good"
	defaultWorkers          = 4
	defaultPlatformIconDir  = "icons"
	defaultDownloadTimeout  = 300
	defaultProbeTimeout     = 30
	defaultTransformTimeout = 1800
	defaultClipLimit        = 20
	defaultHoursAgo         = 168 // one week
	defaultMergePolicy      = "replace"
	defaultGCSCacheDir      = "./.cache"
)

type Config struct {
	TwitchClientID     string
	TwitchClientSecret string
	GCSBucket          string

	ResultsDir    string `yaml:"results_dir"`
	AssetsDir     string `yaml:"assets_dir"`
	DownloadsFile string `yaml:"downloads_file"`
	DatabasePath  string `yaml:"database_path"`
	Resolution    string `yaml:"resolution"`
	Device        string `yaml:"device"`
	Quality       string `yaml:"quality"`
	Workers       int    `yaml:"workers"`

	UseIntro        bool   `yaml:"use_intro"`
	IntroPath       string `yaml:"intro_path"`
	UseOutro        bool   `yaml:"use_outro"`
	OutroPath       string `yaml:"outro_path"`
	UseTransition   bool   `yaml:"use_transition"`
	TransitionPath  string `yaml:"transition_path"`
	UseFrame        bool   `yaml:"use_frame"`
	FramePath       string `yaml:"frame_path"`
	UsePlatformIcon bool   `yaml:"use_platform_icon"`
	PlatformIconDir string `yaml:"platform_icon_dir"`

	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	GCS       GCSConfig       `yaml:"gcs"`
}

// TimeoutsConfig bounds each external tool invocation, in seconds. Zero
// means no bound.
type TimeoutsConfig struct {
	Download  int `yaml:"download"`
	Probe     int `yaml:"probe"`
	Transform int `yaml:"transform"`
}

func (t TimeoutsConfig) DownloadDuration() time.Duration {
	return time.Duration(t.Download) * time.Second
}

func (t TimeoutsConfig) ProbeDuration() time.Duration {
	return time.Duration(t.Probe) * time.Second
}

func (t TimeoutsConfig) TransformDuration() time.Duration {
	return time.Duration(t.Transform) * time.Second
}

// DiscoveryConfig drives the discover command. MergePolicy is either
// "replace", which rewrites the downloads file keeping only comments, or
// "append", which adds new lines at the end.
type DiscoveryConfig struct {
	GameID      string `yaml:"game_id"`
	Broadcaster string `yaml:"broadcaster"`
	HoursAgo    int    `yaml:"hours_ago"`
	ClipLimit   int    `yaml:"clip_limit"`
	MergePolicy string `yaml:"merge_policy"`
}

// GCSConfig enables serving bumper and overlay assets from a bucket
// instead of the local assets directory.
type GCSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	AssetDir string `yaml:"asset_dir"`
	CacheDir string `yaml:"cache_dir"`
}

func Load() *Config {
	return LoadFrom(defaultConfigPath)
}

// LoadFrom reads settings from the given yaml path. A missing file is not
// an error; defaults and the environment cover everything required.
func LoadFrom(path string) *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		TwitchClientID:     os.Getenv("TWITCH_CLIENT_ID"),
		TwitchClientSecret: os.Getenv("TWITCH_CLIENT_SECRET"),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
	}

	loadYAML(cfg, path)
	applyDefaults(cfg)

	return cfg
}

func loadYAML(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("no config file found, using defaults", "path", path)
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("failed to parse config file", "path", path, "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = defaultResultsDir
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = defaultAssetsDir
	}
	if cfg.DownloadsFile == "" {
		cfg.DownloadsFile = defaultDownloadsFile
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	if cfg.Resolution == "" {
		cfg.Resolution = defaultResolution
	}
	if cfg.Device == "" {
		cfg.Device = defaultDevice
	}
	if cfg.Quality == "" {
		cfg.Quality = defaultQuality
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.PlatformIconDir == "" {
		cfg.PlatformIconDir = defaultPlatformIconDir
	}

	if cfg.Timeouts.Download == 0 {
		cfg.Timeouts.Download = defaultDownloadTimeout
	}
	if cfg.Timeouts.Probe == 0 {
		cfg.Timeouts.Probe = defaultProbeTimeout
	}
	if cfg.Timeouts.Transform == 0 {
		cfg.Timeouts.Transform = defaultTransformTimeout
	}

	if cfg.Discovery.HoursAgo == 0 {
		cfg.Discovery.HoursAgo = defaultHoursAgo
	}
	if cfg.Discovery.ClipLimit == 0 {
		cfg.Discovery.ClipLimit = defaultClipLimit
	}
	if cfg.Discovery.MergePolicy == "" {
		cfg.Discovery.MergePolicy = defaultMergePolicy
	}

	if cfg.GCS.CacheDir == "" {
		cfg.GCS.CacheDir = defaultGCSCacheDir
	}
}
