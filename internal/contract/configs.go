package contract

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/kankavli/greenarea/core/sim"
	"github.com/kankavli/greenarea/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 200
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxBatchSize       = 10000
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// RangeRawInput holds an optional override of a simulation range.
type RangeRawInput struct {
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
}

// SimulationRawInput holds the custom simulation ranges from the YAML config file.
// Offsets are subtracted from the method each alternative derives from.
type SimulationRawInput struct {
	Primary *RangeRawInput `mapstructure:"primary"`
	NDVI    *RangeRawInput `mapstructure:"ndvi"`
	GNDVI   *RangeRawInput `mapstructure:"gndvi"`
	EVI     *RangeRawInput `mapstructure:"evi"`
	SAVI    *RangeRawInput `mapstructure:"savi"`
}

// Config holds the runtime configuration for lookups.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Verbose     bool

	Filter       string
	InputFile    string
	VillagesFile string

	// Seed makes lookups repeatable when HasSeed is set
	Seed    uint64
	HasSeed bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Simulation sim.Params
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Seed             string `mapstructure:"seed"`
	VillagesFile     string `mapstructure:"villages-file"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Verbose          bool   `mapstructure:"verbose"`

	// --- Fields from villagesCmd.Flags() ---
	Filter string `mapstructure:"filter"`

	// --- Fields from batchCmd.Flags() ---
	InputFile string `mapstructure:"input-file"`

	// --- Custom simulation ranges from config file ---
	Simulation SimulationRawInput `mapstructure:"simulation"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Simulation = c.Simulation.Clone()
	return &clone
}

// ProcessAndValidate reads from input and populates cfg.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processSeed(cfg, input); err != nil {
		return err
	}
	if err := processFiles(cfg, input); err != nil {
		return err
	}
	return processSimulation(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' followed by host:port")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend lower-cases and validates a history backend name.
// An empty name selects the none backend.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.Filter = strings.TrimSpace(input.Filter)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// processSeed parses the optional seed.
func processSeed(cfg *Config, input *ConfigRawInput) error {
	cfg.HasSeed = false
	cfg.Seed = 0
	s := strings.TrimSpace(input.Seed)
	if s == "" {
		return nil
	}
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid --seed value '%s': must be a non-negative integer", input.Seed)
	}
	cfg.Seed = seed
	cfg.HasSeed = true
	return nil
}

// processFiles checks that the optional input files exist.
func processFiles(cfg *Config, input *ConfigRawInput) error {
	cfg.VillagesFile = strings.TrimSpace(input.VillagesFile)
	cfg.InputFile = strings.TrimSpace(input.InputFile)
	for flag, path := range map[string]string{"villages-file": cfg.VillagesFile, "input-file": cfg.InputFile} {
		if path == "" || path == "-" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", flag, err)
		}
		if info.IsDir() {
			return fmt.Errorf("invalid --%s: %s is a directory", flag, path)
		}
	}
	return nil
}

// processSimulation applies the custom ranges on top of the defaults.
func processSimulation(cfg *Config, input *ConfigRawInput) error {
	params, err := ProcessSimulationRawInput(input.Simulation)
	if err != nil {
		return err
	}
	cfg.Simulation = params
	return nil
}

// ProcessSimulationRawInput merges the raw ranges into the default simulation params
// and validates the result.
func ProcessSimulationRawInput(raw SimulationRawInput) (sim.Params, error) {
	params := sim.DefaultParams()
	params.PrimaryRange = mergeRange(params.PrimaryRange, raw.Primary)

	offsets := map[schema.Method]*RangeRawInput{
		schema.NDVIMethod:  raw.NDVI,
		schema.GNDVIMethod: raw.GNDVI,
		schema.EVIMethod:   raw.EVI,
		schema.SAVIMethod:  raw.SAVI,
	}
	for _, d := range sim.DefaultParams().Derivations {
		raw := offsets[d.Method]
		if raw == nil {
			continue
		}
		var err error
		if params, err = params.WithOffset(d.Method, mergeRange(d.Offset, raw)); err != nil {
			return sim.Params{}, fmt.Errorf("invalid simulation config: %w", err)
		}
	}

	if err := params.Validate(); err != nil {
		return sim.Params{}, fmt.Errorf("invalid simulation config: %w", err)
	}
	return params, nil
}

func mergeRange(base sim.Range, raw *RangeRawInput) sim.Range {
	if raw == nil {
		return base
	}
	if raw.Min != nil {
		base.Min = *raw.Min
	}
	if raw.Max != nil {
		base.Max = *raw.Max
	}
	return base
}

// ConfigParams summarizes the config for history records.
func (c *Config) ConfigParams() map[string]any {
	params := map[string]any{
		"workers":        c.Workers,
		"precision":      c.Precision,
		"output":         string(c.Output),
		"primary_range":  c.Simulation.PrimaryRange,
		"derivations":    c.Simulation.Derivations,
		"villages_file":  c.VillagesFile,
		"seeded":         c.HasSeed,
		"history_driver": string(c.HistoryBackend),
	}
	if c.HasSeed {
		params["seed"] = c.Seed
	}
	return params
}
