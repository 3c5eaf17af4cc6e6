// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deepteams/avcore/internal/analysis"
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/logging"
	"github.com/deepteams/avcore/internal/me"
)

// ErrRefs is returned for a reference count outside [1, 16].
var ErrRefs = errors.New("config: refs out of [1, 16]")

// Config is the file form of the analysis settings plus the sequence
// driver settings the command line uses.
type Config struct {
	// Motion search
	Method string `yaml:"method"`
	Range  int    `yaml:"range"`
	Subme  int    `yaml:"subme"`

	// Mode decision and residual
	QP             int  `yaml:"qp"`
	Partitions8x8  bool `yaml:"partitions_8x8"`
	BidirWeight    int  `yaml:"bidir_weight"`
	Transform8x8   bool `yaml:"transform_8x8"`
	Decimate       bool `yaml:"decimate"`
	NoiseReduction int  `yaml:"noise_reduction"`
	Field          bool `yaml:"field"`
	Chroma         bool `yaml:"chroma"`
	Bitstream      bool `yaml:"bitstream"`

	// Sequence
	Refs       int    `yaml:"refs"`
	ClosedLoop bool   `yaml:"closed_loop"`
	Align      string `yaml:"align"`

	// Runtime
	Workers  int    `yaml:"workers"`
	Jobs     int    `yaml:"jobs"`
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	d := analysis.DefaultOptions()
	return Config{
		Method: d.ME.Method.String(),
		Range:  d.ME.Range,
		Subme:  d.ME.Subme,

		QP:            d.QP,
		Partitions8x8: d.Partitions8x8,
		BidirWeight:   d.BidirWeight,
		Transform8x8:  d.Transform8x8,
		Decimate:      d.Decimate,
		Chroma:        d.Chroma,

		Refs:  1,
		Align: "pad",

		Jobs:     2,
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), err
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports whether c describes a usable analysis.
func (c Config) Validate() error {
	if c.Refs < 1 || c.Refs > 16 {
		return ErrRefs
	}
	if _, err := frameio.ParseAlignMode(c.Align); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("config: jobs %d < 1", c.Jobs)
	}
	opts, err := c.Options(nil)
	if err != nil {
		return err
	}
	return opts.Validate()
}

// Options converts c to analyzer options logging to log.
func (c Config) Options(log logging.Logger) (analysis.Options, error) {
	method, err := me.ParseMethod(c.Method)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		ME: me.Config{
			Method: method,
			Range:  c.Range,
			Subme:  c.Subme,
		},
		QP:             c.QP,
		Partitions8x8:  c.Partitions8x8,
		BidirWeight:    c.BidirWeight,
		Transform8x8:   c.Transform8x8,
		Decimate:       c.Decimate,
		NoiseReduction: c.NoiseReduction,
		Field:          c.Field,
		Chroma:         c.Chroma,
		Bitstream:      c.Bitstream,
		Workers:        c.Workers,
		Logger:         log,
	}, nil
}
