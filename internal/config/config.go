package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/bartonicek/sql-example-report/internal/regression"
)

// Config holds all configuration for a report run
type Config struct {
	// Input datasets
	FlightsPath  string `yaml:"flights"`
	AirportsPath string `yaml:"airports"`

	// Output artifacts. Empty file names disable that artifact.
	OutputDir string `yaml:"output_dir"`
	PlotFile  string `yaml:"plot_file"`
	PDFFile   string `yaml:"pdf_file"`

	// Delay/distance regression
	Knots     int     `yaml:"knots"`
	Bandwidth float64 `yaml:"bandwidth"`
	GridSize  int     `yaml:"grid_size"`
}

// Default returns the standard run configuration.
func Default() *Config {
	opts := regression.DefaultOptions()
	return &Config{
		FlightsPath:  "data/flights.csv",
		AirportsPath: "data/airports.csv",
		OutputDir:    "out",
		PlotFile:     "delay_by_distance.png",
		PDFFile:      "",
		Knots:        opts.Knots,
		Bandwidth:    opts.Bandwidth,
		GridSize:     opts.GridSize,
	}
}

// Load builds the run configuration in layers: defaults, then an
// optional YAML file, then environment variables. Flag overrides are
// applied by the caller, which is also responsible for calling
// Validate once every layer is in.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.FlightsPath = getEnv("FLIGHTS_CSV", c.FlightsPath)
	c.AirportsPath = getEnv("AIRPORTS_CSV", c.AirportsPath)
	c.OutputDir = getEnv("REPORT_OUTPUT_DIR", c.OutputDir)
	c.PlotFile = getEnv("REPORT_PLOT_FILE", c.PlotFile)
	c.PDFFile = getEnv("REPORT_PDF_FILE", c.PDFFile)
	c.Knots = getEnvInt("REPORT_KNOTS", c.Knots)
	c.Bandwidth = getEnvFloat("REPORT_BANDWIDTH", c.Bandwidth)
	c.GridSize = getEnvInt("REPORT_GRID_SIZE", c.GridSize)
}

// Validate checks that the configuration can drive a full run.
func (c *Config) Validate() error {
	if c.FlightsPath == "" {
		return errors.New("flights path is required")
	}
	if c.AirportsPath == "" {
		return errors.New("airports path is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if err := c.FitOptions().Validate(); err != nil {
		return err
	}
	return nil
}

// FitOptions returns the regression parameters as fit options.
func (c *Config) FitOptions() regression.Options {
	return regression.Options{
		Knots:     c.Knots,
		Bandwidth: c.Bandwidth,
		GridSize:  c.GridSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
