package config

import (
	"os"
	"runtime"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Extract holds configuration of the extract command
type Extract struct {
	Input         string `toml:"input"`
	Output        string `toml:"output"`
	Force         bool   `toml:"force"`
	CreateParents bool   `toml:"create_parents"`
	Workers       int    `toml:"workers"`

	ConfigFile string `toml:"-"`
	NoColor    bool   `toml:"-"`
}

// Flags returns CLI flags for extract configuration
func (c *Extract) Flags() []cli.Flag {
	return []cli.Flag{
		inputFlag(&c.Input),
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Destination directory of the recovered tree",
			Destination: &c.Output,
			Sources:     cli.EnvVars("PLFRECOVER_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Replace existing non-empty files and symlinks",
			Destination: &c.Force,
			Sources:     cli.EnvVars("PLFRECOVER_FORCE"),
		},
		&cli.BoolFlag{
			Name:        "create-parents",
			Usage:       "Create missing parent directories instead of skipping the entry",
			Destination: &c.CreateParents,
			Sources:     cli.EnvVars("PLFRECOVER_CREATE_PARENTS"),
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "Number of concurrent decode workers",
			Value:       runtime.NumCPU(),
			Destination: &c.Workers,
			Sources:     cli.EnvVars("PLFRECOVER_WORKERS"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("PLFRECOVER_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored summary output",
			Destination: &c.NoColor,
			Sources:     cli.EnvVars("PLFRECOVER_NO_COLOR"),
		},
	}
}

// Load merges the configuration file into c. Values given on the command line
// (isSet reports them by flag name) take precedence over the file.
func (c *Extract) Load(isSet func(name string) bool) error {
	if c.ConfigFile == "" {
		return nil
	}

	raw, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return goerr.Wrap(types.ErrInvalidConfig, "failed to read config file",
			goerr.V("path", c.ConfigFile),
			goerr.V("cause", err.Error()),
		)
	}

	var file Extract
	if err := toml.Unmarshal(raw, &file); err != nil {
		return goerr.Wrap(types.ErrInvalidConfig, "failed to parse config file",
			goerr.V("path", c.ConfigFile),
			goerr.V("cause", err.Error()),
		)
	}

	if !isSet("input") && file.Input != "" {
		c.Input = file.Input
	}
	if !isSet("output") && file.Output != "" {
		c.Output = file.Output
	}
	if !isSet("force") && file.Force {
		c.Force = true
	}
	if !isSet("create-parents") && file.CreateParents {
		c.CreateParents = true
	}
	if !isSet("workers") && file.Workers != 0 {
		c.Workers = file.Workers
	}

	return nil
}

// Validate checks that required values are present
func (c *Extract) Validate() error {
	if c.Input == "" {
		return goerr.Wrap(types.ErrInvalidConfig, "input is required")
	}
	if c.Output == "" {
		return goerr.Wrap(types.ErrInvalidConfig, "output is required")
	}
	if c.Workers < 1 {
		return goerr.Wrap(types.ErrInvalidConfig, "workers must be positive",
			goerr.V("workers", c.Workers),
		)
	}
	return nil
}

// List holds configuration of the list command
type List struct {
	Input string
}

// Flags returns CLI flags for list configuration
func (c *List) Flags() []cli.Flag {
	return []cli.Flag{inputFlag(&c.Input)}
}

// Validate checks that required values are present
func (c *List) Validate() error {
	if c.Input == "" {
		return goerr.Wrap(types.ErrInvalidConfig, "input is required")
	}
	return nil
}

func inputFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "input",
		Aliases:     []string{"i"},
		Usage:       "Entry directory or .plf image file",
		Destination: dst,
		Sources:     cli.EnvVars("PLFRECOVER_INPUT"),
	}
}
