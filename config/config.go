// Package config holds the process-wide configuration and the tunable
// matcher parameters.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mcuadros/go-defaults"
)

// Config is the active configuration. Call LoadDefaultConfig or Load first.
var Config *Configuration

// Configuration is the root of the TOML document.
type Configuration struct {
	// Workers bounds the goroutines used when matching one probe against many candidates.
	Workers int `toml:"workers" default:"1"`
	// Threshold is the score above which a comparison counts as a match.
	Threshold float64 `toml:"threshold" default:"40"`

	Matcher MatcherParameters `toml:"matcher"`
	Server  ServerConfig      `toml:"server"`
}

// ServerConfig configures the verification service.
type ServerConfig struct {
	Addr         string `toml:"addr" default:":9090"`
	LogDir       string `toml:"log_dir" default:"logs"`
	RotationTime string `toml:"rotation_time" default:"24h"`
	MaxAge       string `toml:"max_age" default:"168h"`
	// MatchTimeout bounds a single comparison; the matcher stops between roots.
	MatchTimeout string `toml:"match_timeout" default:"5s"`
}

// Durations parses the duration fields.
func (s ServerConfig) Durations() (rotation, maxAge, matchTimeout time.Duration, err error) {
	if rotation, err = time.ParseDuration(s.RotationTime); err != nil {
		return 0, 0, 0, fmt.Errorf("rotation_time: %w", err)
	}
	if maxAge, err = time.ParseDuration(s.MaxAge); err != nil {
		return 0, 0, 0, fmt.Errorf("max_age: %w", err)
	}
	if matchTimeout, err = time.ParseDuration(s.MatchTimeout); err != nil {
		return 0, 0, 0, fmt.Errorf("match_timeout: %w", err)
	}
	return rotation, maxAge, matchTimeout, nil
}

// MatcherParameters are read by the matcher's sub-components.
type MatcherParameters struct {
	MaxTriedRoots int `toml:"max_tried_roots" default:"10000"`

	Roots     RootParameters     `toml:"roots"`
	Neighbors NeighborParameters `toml:"neighbors"`
	Edges     EdgeParameters     `toml:"edges"`
	Scoring   ScoringParameters  `toml:"scoring"`
}

// RootOrder selects how roots are enumerated.
type RootOrder string

const (
	// ExhaustiveOrder walks probe×candidate in index order.
	ExhaustiveOrder RootOrder = "exhaustive"
	// DensityOrder tries minutiae with the most neighbors first.
	DensityOrder RootOrder = "density"
)

type RootParameters struct {
	RequireTypeMatch bool      `toml:"require_type_match" default:"true"`
	Order            RootOrder `toml:"order" default:"exhaustive"`
}

type NeighborParameters struct {
	MaxDistance  int `toml:"max_distance" default:"150"`
	MaxNeighbors int `toml:"max_neighbors" default:"9"`
}

type EdgeParameters struct {
	MaxLengthError float64 `toml:"max_length_error" default:"13"`
	// MaxAngleError is in radians. The default is π/16.
	MaxAngleError float64 `toml:"max_angle_error" default:"0.19634954084936207"`
}

type ScoringParameters struct {
	PairCountWeight        float64 `toml:"pair_count_weight" default:"25"`
	PairFractionWeight     float64 `toml:"pair_fraction_weight" default:"40"`
	CorrectTypeWeight      float64 `toml:"correct_type_weight" default:"5"`
	DistanceAccuracyWeight float64 `toml:"distance_accuracy_weight" default:"15"`
	AngleAccuracyWeight    float64 `toml:"angle_accuracy_weight" default:"15"`
	PairCountSaturation    int     `toml:"pair_count_saturation" default:"12"`
}

// Default returns a configuration with every field at its default.
func Default() *Configuration {
	c := new(Configuration)
	defaults.SetDefaults(c)
	return c
}

// DefaultMatcherParameters returns the default matcher parameters.
func DefaultMatcherParameters() MatcherParameters {
	return Default().Matcher
}

// LoadDefaultConfig resets Config to the defaults.
func LoadDefaultConfig() {
	Config = Default()
	if Config.Workers <= 0 {
		Config.Workers = runtime.NumCPU()
	}
}

// Load decodes a TOML file over the defaults and makes it the active Config.
// Unknown keys are an error; out-of-range parameters are clamped.
func Load(path string) error {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := c.normalize(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	Config = c
	return nil
}

func (c *Configuration) normalize() error {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	c.Matcher = c.Matcher.Clamped()
	if _, _, _, err := c.Server.Durations(); err != nil {
		return err
	}
	switch c.Matcher.Roots.Order {
	case ExhaustiveOrder, DensityOrder:
	default:
		return fmt.Errorf("unknown root order %q", c.Matcher.Roots.Order)
	}
	return nil
}
