package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// ConfigFileNames are looked up, in order, by FindConfig.
var ConfigFileNames = []string{".lustcov.yaml", ".lustcov.yml", ".lustcov.toml"}

// ConfigLoader reads coverage settings from YAML or TOML files.
type ConfigLoader interface {
	// Load reads path over the defaults. An empty path returns the
	// defaults.
	Load(path string) (m.Config, error)
	// FindConfig returns the first config file present in dir, or "".
	FindConfig(dir string) string
}

// LocalConfigLoader implements ConfigLoader on the local disk.
type LocalConfigLoader struct{}

// NewLocalConfigLoader constructs a LocalConfigLoader.
func NewLocalConfigLoader() *LocalConfigLoader {
	return &LocalConfigLoader{}
}

// fileConfig mirrors model.Config with optional fields so that keys absent
// from the file keep their defaults.
type fileConfig struct {
	ControlFlowKeywordsExecutable *bool    `yaml:"control_flow_keywords_executable" toml:"control_flow_keywords_executable"`
	Include                       []string `yaml:"include" toml:"include"`
	Exclude                       []string `yaml:"exclude" toml:"exclude"`
	TrackBlocks                   *bool    `yaml:"track_blocks" toml:"track_blocks"`
	Threshold                     *float64 `yaml:"threshold" toml:"threshold"`
	PartialPolicy                 *string  `yaml:"partial_policy" toml:"partial_policy"`
	MaxFileSize                   *int     `yaml:"max_file_size" toml:"max_file_size"`
	ParseTimeout                  *string  `yaml:"parse_timeout" toml:"parse_timeout"`
	MaxDepth                      *int     `yaml:"max_depth" toml:"max_depth"`
	Workers                       *int     `yaml:"workers" toml:"workers"`
}

func (f fileConfig) apply(cfg *m.Config) {
	if f.ControlFlowKeywordsExecutable != nil {
		cfg.ControlFlowKeywordsExecutable = *f.ControlFlowKeywordsExecutable
	}

	if f.Include != nil {
		cfg.Include = f.Include
	}

	if f.Exclude != nil {
		cfg.Exclude = f.Exclude
	}

	if f.TrackBlocks != nil {
		cfg.TrackBlocks = *f.TrackBlocks
	}

	if f.Threshold != nil {
		cfg.Threshold = *f.Threshold
	}

	if f.PartialPolicy != nil {
		cfg.PartialPolicy = m.PartialPolicy(*f.PartialPolicy)
	}

	if f.MaxFileSize != nil {
		cfg.MaxFileSize = *f.MaxFileSize
	}

	if f.ParseTimeout != nil {
		cfg.ParseTimeout = *f.ParseTimeout
	}

	if f.MaxDepth != nil {
		cfg.MaxDepth = *f.MaxDepth
	}

	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
}

// Load reads and validates the config at path.
func (l *LocalConfigLoader) Load(path string) (m.Config, error) {
	cfg := m.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	path, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	fc.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfig looks for a config file in dir.
func (l *LocalConfigLoader) FindConfig(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
