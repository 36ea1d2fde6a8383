// Package scanconfig loads the derivescan run configuration from YAML with
// environment overrides. Flags handled in cmd take precedence over both.
package scanconfig

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RideMatch1/qubic-church-sub003/internal/corpus"
)

// Config is the effective run configuration after defaults, file values and
// environment overrides are merged.
type Config struct {
	CorpusPath  string
	SeedList    string
	Schemes     []string
	Workers     int
	VersionByte byte
	Moduli      []int
	MetricsAddr string

	// Post-transform sweep: every (step, xor) pair from these sets is added
	// on top of each base scheme. Empty sets mean no sweep.
	SweepSteps []int
	SweepXors  []int
}

// Default returns the configuration used when nothing else is given:
// Bitcoin mainnet P2PKH, all four schemes, no transform sweep.
func Default() Config {
	return Config{
		Schemes:     []string{"single-hash", "double-hash", "double-sponge", "double-sponge-raw"},
		Workers:     0, // matcher picks NumCPU
		VersionByte: 0x00,
		Moduli:      append([]int(nil), corpus.DefaultModuli...),
	}
}

type FileConfig struct {
	Scan ScanSection `yaml:"scan"`
}

type ScanSection struct {
	Corpus      string   `yaml:"corpus"`
	SeedList    string   `yaml:"seedList"`
	Schemes     []string `yaml:"schemes"`
	Workers     int      `yaml:"workers"`
	VersionByte *int     `yaml:"versionByte"`
	Moduli      []int    `yaml:"moduli"`
	MetricsAddr string   `yaml:"metricsAddr"`
	SweepSteps  []int    `yaml:"sweepSteps"`
	SweepXors   []int    `yaml:"sweepXors"`
}

// LoadFromPath reads the config file at configPath, falling back to the
// default locations when it is empty. A missing or unreadable file is not an
// error; defaults plus env overrides apply.
func LoadFromPath(configPath string) Config {
	cfg := Default()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/derivescan.yaml",
			"derivescan.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		Merge(&cfg, parsed.Scan)
		ApplyEnvOverrides(&cfg)
		return cfg
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

// Merge overlays non-zero file values onto dst.
func Merge(dst *Config, src ScanSection) {
	if src.Corpus != "" {
		dst.CorpusPath = src.Corpus
	}
	if src.SeedList != "" {
		dst.SeedList = src.SeedList
	}
	if src.Schemes != nil {
		dst.Schemes = src.Schemes
	}
	if src.Workers != 0 {
		dst.Workers = src.Workers
	}
	if src.VersionByte != nil && *src.VersionByte >= 0 && *src.VersionByte <= 255 {
		dst.VersionByte = byte(*src.VersionByte)
	}
	if src.Moduli != nil {
		dst.Moduli = src.Moduli
	}
	if src.MetricsAddr != "" {
		dst.MetricsAddr = src.MetricsAddr
	}
	if src.SweepSteps != nil {
		dst.SweepSteps = src.SweepSteps
	}
	if src.SweepXors != nil {
		dst.SweepXors = src.SweepXors
	}
}

// ApplyEnvOverrides applies QCS_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("QCS_CORPUS")); v != "" {
		cfg.CorpusPath = v
	}
	if v := strings.TrimSpace(os.Getenv("QCS_SEED_LIST")); v != "" {
		cfg.SeedList = v
	}
	if v := strings.TrimSpace(os.Getenv("QCS_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("QCS_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("QCS_VERSION_BYTE")); v != "" {
		if n, err := strconv.ParseUint(v, 0, 8); err == nil {
			cfg.VersionByte = byte(n)
		}
	}
}
