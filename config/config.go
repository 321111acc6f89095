package config

import (
	"fmt"
	"os"
	"path"

	"github.com/BurntSushi/toml"
)

const baseCfgPath = "zap2xml/config.toml"

// Config carries every zap2it request parameter plus the local paths the
// run reads and writes through. It is assembled once at startup and never
// mutated afterwards.
type Config struct {
	AID        string `toml:"aid"`
	Country    string `toml:"country"`
	Device     string `toml:"device"`
	HeadendID  string `toml:"headend_id"`
	IsOverride bool   `toml:"is_override"`
	Language   string `toml:"language"`
	Pref       string `toml:"pref"`
	Timespan   int    `toml:"timespan"` // hours of data per fetch
	Timezone   string `toml:"timezone"`
	UserID     string `toml:"user_id"`
	PostalCode string `toml:"postal_code"`

	Delay      int    `toml:"delay"` // seconds between server fetches
	CacheDir   string `toml:"cache_dir"`
	OutputFile string `toml:"output_file"`
}

// LineupID derives the lineup identifier sent with every grid request.
func (c Config) LineupID() string {
	return fmt.Sprintf("%s-%s-DEFAULT", c.Country, c.Device)
}

// Validate reports the configuration problems that make a run impossible.
func (c Config) Validate() error {
	if c.PostalCode == "" {
		return fmt.Errorf("a zip/postal code is required")
	}
	if c.Timespan <= 0 {
		return fmt.Errorf("timespan must be a positive number of hours, got %d", c.Timespan)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %d", c.Delay)
	}
	return nil
}

func Read(path string) (Config, error) {
	conf := Default()
	dat, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	_, err = toml.Decode(string(dat), &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to decode config at %s with %w", path, err)
	}
	return conf, nil
}

func Write(cfgPath string, cfg Config) error {
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config with %w", err)
	}
	basePath := path.Dir(cfgPath)
	err = os.MkdirAll(basePath, os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to create base config directory at '%s' with %w", basePath, err)
	}
	err = os.WriteFile(cfgPath, blob, 0644)
	if err != nil {
		return fmt.Errorf("failed to write into config file at '%s' with %w", cfgPath, err)
	}
	return nil
}

// Default mirrors the upstream tool's stock parameters. "-" really is the
// value Device and UserID carry on the wire.
func Default() Config {
	return Config{
		AID:        "gapzap",
		Country:    "USA",
		Device:     "-",
		HeadendID:  "lineupId",
		IsOverride: true,
		Language:   "en",
		Pref:       "m,p",
		Timespan:   3,
		UserID:     "-",
		Delay:      5,
		CacheDir:   DefaultCacheDir(),
		OutputFile: "xmltv.xml",
	}
}

func DefaultPath() string {
	var xdgHome = os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		return path.Join(xdgHome, baseCfgPath)
	}

	var home = os.Getenv("HOME")
	if home != "" {
		return path.Join(home, ".config", baseCfgPath)
	}

	return baseCfgPath
}

// DefaultCacheDir returns the base directory holding the per-postal-code
// bucket caches.
func DefaultCacheDir() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return "cache" // fall back to the working directory
		}
		cacheDir = path.Join(home, ".cache")
	}
	return path.Join(cacheDir, "zap2xml")
}
