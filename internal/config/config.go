// Package config loads the CLI and server settings from YAML or HCL files,
// applies ASTAR_* environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// Config holds everything cmd/astar needs.
type Config struct {
	Log       Log       `yaml:"log"`
	Heuristic Heuristic `yaml:"heuristic"`
	Grid      Grid      `yaml:"grid"`
	Server    Server    `yaml:"server"`
	Bench     Bench     `yaml:"bench"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Heuristic selects the distance estimate and its affine parameters.
type Heuristic struct {
	Kind  string  `yaml:"kind" validate:"oneof=manhattan chebyshev euclidean octile zero"`
	Scale float64 `yaml:"scale" validate:"gte=0"`
	Alpha float64 `yaml:"alpha" validate:"gte=0"`
	Mod   float64 `yaml:"mod"`
}

// Grid describes the generated board.
type Grid struct {
	Width     int     `yaml:"width" validate:"min=2,max=4096"`
	Height    int     `yaml:"height" validate:"min=1,max=4096"`
	Clusters  int     `yaml:"clusters" validate:"gte=0"`
	Steps     int     `yaml:"steps" validate:"gte=0"`
	Density   float64 `yaml:"density" validate:"gte=0,lte=1"`
	Seed      int64   `yaml:"seed"`
	Diagonal  bool    `yaml:"diagonal"`
	SoftWalls bool    `yaml:"soft_walls"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Bench configures the batch benchmark.
type Bench struct {
	Queries int `yaml:"queries" validate:"min=1"`
	Workers int `yaml:"workers" validate:"gte=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:       Log{Level: "info", Format: "text"},
		Heuristic: Heuristic{Kind: "manhattan", Scale: 1, Alpha: 1},
		Grid:      Grid{Width: 40, Height: 24, Clusters: 8, Steps: 200, Density: 0.25, Seed: 1},
		Server:    Server{Addr: ":8080"},
		Bench:     Bench{Queries: 100},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads path (".yaml", ".yml" or ".hcl") over the defaults, applies
// environment overrides and validates. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = loadYAML(path, &cfg)
		case ".hcl":
			err = loadHCL(path, &cfg)
		default:
			err = fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
		}
		if err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// hclFile mirrors Config with optional blocks and attributes so that
// anything left out keeps its default.
type hclFile struct {
	Log *struct {
		Level  *string `hcl:"level,optional"`
		Format *string `hcl:"format,optional"`
	} `hcl:"log,block"`
	Heuristic *struct {
		Kind  *string  `hcl:"kind,optional"`
		Scale *float64 `hcl:"scale,optional"`
		Alpha *float64 `hcl:"alpha,optional"`
		Mod   *float64 `hcl:"mod,optional"`
	} `hcl:"heuristic,block"`
	Grid *struct {
		Width     *int     `hcl:"width,optional"`
		Height    *int     `hcl:"height,optional"`
		Clusters  *int     `hcl:"clusters,optional"`
		Steps     *int     `hcl:"steps,optional"`
		Density   *float64 `hcl:"density,optional"`
		Seed      *int64   `hcl:"seed,optional"`
		Diagonal  *bool    `hcl:"diagonal,optional"`
		SoftWalls *bool    `hcl:"soft_walls,optional"`
	} `hcl:"grid,block"`
	Server *struct {
		Addr *string `hcl:"addr,optional"`
	} `hcl:"server,block"`
	Bench *struct {
		Queries *int `hcl:"queries,optional"`
		Workers *int `hcl:"workers,optional"`
	} `hcl:"bench,block"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func loadHCL(path string, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if b := parsed.Log; b != nil {
		set(&cfg.Log.Level, b.Level)
		set(&cfg.Log.Format, b.Format)
	}
	if b := parsed.Heuristic; b != nil {
		set(&cfg.Heuristic.Kind, b.Kind)
		set(&cfg.Heuristic.Scale, b.Scale)
		set(&cfg.Heuristic.Alpha, b.Alpha)
		set(&cfg.Heuristic.Mod, b.Mod)
	}
	if b := parsed.Grid; b != nil {
		set(&cfg.Grid.Width, b.Width)
		set(&cfg.Grid.Height, b.Height)
		set(&cfg.Grid.Clusters, b.Clusters)
		set(&cfg.Grid.Steps, b.Steps)
		set(&cfg.Grid.Density, b.Density)
		set(&cfg.Grid.Seed, b.Seed)
		set(&cfg.Grid.Diagonal, b.Diagonal)
		set(&cfg.Grid.SoftWalls, b.SoftWalls)
	}
	if b := parsed.Server; b != nil {
		set(&cfg.Server.Addr, b.Addr)
	}
	if b := parsed.Bench; b != nil {
		set(&cfg.Bench.Queries, b.Queries)
		set(&cfg.Bench.Workers, b.Workers)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ASTAR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ASTAR_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ASTAR_HEURISTIC"); v != "" {
		cfg.Heuristic.Kind = v
	}
	if v := os.Getenv("ASTAR_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ASTAR_GRID_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Join(errors.New("ASTAR_GRID_SEED must be an integer"), err)
		}
		cfg.Grid.Seed = seed
	}
	return nil
}
