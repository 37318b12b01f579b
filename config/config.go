package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/cask"
	"github.com/carbocation/snfspectra/physics"
	"github.com/carbocation/snfspectra/refdata"
	"github.com/carbocation/snfspectra/spectrum"
)

// Config holds the settings shared by the tools. Defaults come from the
// environment and can be overridden on the command line.
type Config struct {
	DataDir     string  `env:"SNF_DATA_DIR" envDefault:"data"`
	Layout      string  `env:"SNF_LAYOUT" envDefault:"IAEA"`
	MinEnergy   int     `env:"SNF_MIN_ENERGY" envDefault:"0"`
	MaxEnergy   int     `env:"SNF_MAX_ENERGY" envDefault:"6000"`
	DecayChains string  `env:"SNF_DECAY_CHAINS"`
	Distance    float64 `env:"SNF_DISTANCE" envDefault:"40"`
	Seed        uint64  `env:"SNF_SEED" envDefault:"1"`
	Concurrency int     `env:"SNF_CONCURRENCY" envDefault:"1"`
	OutDir      string  `env:"SNF_OUT_DIR" envDefault:"."`
	SQLitePath  string  `env:"SNF_SQLITE"`
}

// Parse reads the environment, registers the shared flags on fs with the
// environment values as defaults, then parses args. Tools register their own
// flags on fs before calling Parse.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory with isotopes.csv, spec_data/ and reactor_data/.")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, fmt.Sprintf("Column layout of the spectrum files. One of: %s.", refdata.LayoutNames()))
	fs.IntVar(&cfg.MinEnergy, "min-energy", cfg.MinEnergy, "Lower edge of the shared energy grid (keV).")
	fs.IntVar(&cfg.MaxEnergy, "max-energy", cfg.MaxEnergy, "Upper edge of the shared energy grid (keV).")
	fs.StringVar(&cfg.DecayChains, "decay-chains", cfg.DecayChains, "Optional JSON file listing parent/daughter decay chains. Defaults to Sr90, Ce144, Kr88 and Ru106 chains.")
	fs.Float64Var(&cfg.Distance, "distance", cfg.Distance, "Distance from the casks to the detector (m).")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for sampling.")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Number of casks to build at once.")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory for CSV and PNG output.")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "Optional SQLite database to store every spectrum in.")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.MaxEnergy <= c.MinEnergy {
		return fmt.Errorf("%w: max energy %d must exceed min energy %d", snfspectra.ErrInvalidArgument, c.MaxEnergy, c.MinEnergy)
	}
	if !(c.Distance > 0) {
		return fmt.Errorf("%w: distance must be positive, got %v", snfspectra.ErrInvalidArgument, c.Distance)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", snfspectra.ErrInvalidArgument, c.Concurrency)
	}
	if _, err := refdata.LookupLayout(c.Layout); err != nil {
		return fmt.Errorf("%w: %v", snfspectra.ErrInvalidArgument, err)
	}
	return nil
}

func (c Config) Binning() (spectrum.Binning, error) {
	return spectrum.NewBinning(c.MinEnergy, c.MaxEnergy)
}

// Chains returns the decay chains from the configured file, or the defaults.
func (c Config) Chains() ([]physics.DecayChain, error) {
	if c.DecayChains == "" {
		return physics.DefaultDecayChains(), nil
	}
	return LoadDecayChains(c.DecayChains)
}

func (c Config) Options() (cask.Options, error) {
	b, err := c.Binning()
	if err != nil {
		return cask.Options{}, err
	}
	chains, err := c.Chains()
	if err != nil {
		return cask.Options{}, err
	}
	return cask.Options{Binning: b, Chains: chains}, nil
}

// Store opens the reference data directory.
func (c Config) Store() (*refdata.Store, error) {
	layout, err := refdata.LookupLayout(c.Layout)
	if err != nil {
		return nil, err
	}
	return refdata.NewStore(c.DataDir, layout)
}

// LoadDecayChains reads a JSON list of decay chains, e.g.
//
//	[{"parent": "Sr90", "daughter": "Y90", "branching_ratio": 1}]
//
// A missing branching_ratio means 1.
func LoadDecayChains(path string) ([]physics.DecayChain, error) {
	path = snfspectra.ExpandHome(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	var out []physics.DecayChain
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		var e *json.SyntaxError
		if errors.As(err, &e) {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return nil, pfx.Err(err)
	}

	for i := range out {
		if out[i].BranchingRatio == 0 {
			out[i].BranchingRatio = 1
		}
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", path, i, err)
		}
	}

	return out, nil
}

// ParseFloats parses a comma separated list such as "0,0.5,1".
func ParseFloats(list string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", snfspectra.ErrInvalidArgument, field)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list %q", snfspectra.ErrInvalidArgument, list)
	}
	return out, nil
}
