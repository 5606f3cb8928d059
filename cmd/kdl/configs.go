package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-kdl"
	"github.com/KimNorgaard/go-kdl/internal/config"
)

type MainConfig struct {
	Verbose bool   `cli:"name=v aliases=verbose desc='log debug output to stderr'"`
	V1      bool   `cli:"name=1 desc='accept KDL v1 syntax only'"`
	V2      bool   `cli:"name=2 desc='accept KDL v2 syntax only'"`
	Config  string `cli:"name=config desc='emitter options file (.yaml, .yml or .toml)'"`
	Color   bool   `cli:"name=color desc='force colored output'"`
	NoColor bool   `cli:"name=no-color desc='disable colored output'"`

	// File is the loaded -config file or the one found in the working
	// directory; nil if there is none.
	File *config.File

	Main *cli.Command
}

// loadConfig reads the -config file or, failing that, a discovered one.
func (cfg *MainConfig) loadConfig(dir string) error {
	path := cfg.Config
	if path == "" {
		p, ok := config.Discover(dir)
		if !ok {
			return nil
		}
		path = p
	}
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	theLog.Debug("loaded config", "path", path)
	cfg.File = f
	return nil
}

func (cfg *MainConfig) parseOpts() ([]kdl.ParseOption, error) {
	switch {
	case cfg.V1:
		return []kdl.ParseOption{kdl.WithVersion(kdl.Version1)}, nil
	case cfg.V2:
		return []kdl.ParseOption{kdl.WithVersion(kdl.Version2)}, nil
	case cfg.File != nil:
		return cfg.File.ParseOptions()
	}
	return nil, nil
}

// emitterOptions returns the defaults overlaid with the config file.
func (cfg *MainConfig) emitterOptions() (kdl.EmitterOptions, error) {
	o := kdl.DefaultEmitterOptions()
	if cfg.File != nil {
		if err := cfg.File.Apply(&o); err != nil {
			return o, err
		}
	}
	return o, nil
}

// colors decides whether output to w is colored.
func (cfg *MainConfig) colors(w io.Writer) *kdl.Colors {
	switch {
	case cfg.NoColor:
		return nil
	case cfg.Color:
		color.NoColor = false
		return kdl.NewColors()
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return kdl.NewColors()
	}
	return nil
}

type CatConfig struct {
	*MainConfig

	ASCII    bool `cli:"name=ascii desc='escape all non-ASCII characters in strings'"`
	QuoteAll bool `cli:"name=quote-all desc='quote all identifiers'"`
	ASCIIIDs bool `cli:"name=ascii-ids desc='quote identifiers containing non-ASCII characters'"`
	CapitalE bool `cli:"name=capital-e desc='write E in exponents'"`
	Plus     bool `cli:"name=plus desc='write + before non-negative floats'"`

	Indent *int
	MinExp *int

	Cat *cli.Command
}

func (cfg *CatConfig) emitterOptions(w io.Writer) (kdl.EmitterOptions, error) {
	o, err := cfg.MainConfig.emitterOptions()
	if err != nil {
		return o, err
	}
	if cfg.Indent != nil {
		o.Indent = *cfg.Indent
	}
	if cfg.MinExp != nil {
		o.FloatMode.MinExponent = *cfg.MinExp
	}
	if cfg.ASCII {
		o.EscapeMode = kdl.EscapeASCIIMode
	}
	switch {
	case cfg.QuoteAll:
		o.IdentifierMode = kdl.QuoteAllIdentifiers
	case cfg.ASCIIIDs:
		o.IdentifierMode = kdl.ASCIIIdentifiers
	}
	if cfg.CapitalE {
		o.FloatMode.CapitalE = true
	}
	if cfg.Plus {
		o.FloatMode.Plus = true
	}
	o.Colors = cfg.colors(w)
	return o, nil
}

type FmtConfig struct {
	*MainConfig

	Write bool `cli:"name=w desc='write result to the source file'"`
	List  bool `cli:"name=l desc='list files whose formatting differs'"`
	Diff  bool `cli:"name=d desc='print diffs instead of the formatted text'"`

	Fmt *cli.Command
}

type CheckConfig struct {
	*MainConfig

	Check *cli.Command
}

type TokenizeConfig struct {
	*MainConfig

	Tokenize *cli.Command
}

func intOpt(dst **int) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %d must not be negative", cli.ErrUsage, n)
		}
		*dst = &n
		return n, nil
	})
}
