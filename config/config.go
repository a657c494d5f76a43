// Package config reads the optional TOML file holding defaults for the
// nanobuffer command. Flags set on the command line take precedence.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/olegtaranenko/nanobuffer/ring"
)

type Config struct {
	Capacity         *int     `toml:"capacity"`
	Reverse          *bool    `toml:"reverse"`
	Offset           *int     `toml:"offset"`
	Window           *int     `toml:"window"`
	Interval         Duration `toml:"interval"`
	Script           string   `toml:"script"`
	Concurrency      *int     `toml:"concurrency"`
	MetricAddr       string   `toml:"metric_addr"`
	Out              string   `toml:"out"`
	ReportLengthsCSV string   `toml:"report_lengths_csv"`
	NoLengthSummary  *bool    `toml:"no_length_summary"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
	Set bool
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	d.Set = true
	return nil
}

// Load decodes the file at path. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Capacity != nil {
		if err := ring.CheckSize("capacity", *c.Capacity); err != nil {
			return err
		}
	}
	if c.Window != nil {
		if err := ring.CheckSize("window", *c.Window); err != nil {
			return err
		}
	}
	if c.Concurrency != nil && *c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", *c.Concurrency)
	}
	if c.Interval.Duration < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval.Duration)
	}
	return nil
}
