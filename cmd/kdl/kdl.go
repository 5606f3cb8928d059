package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-kdl/internal/debug"
)

func kdlMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.V1 && cfg.V2 {
		return fmt.Errorf("%w: must specify at most one of -1 -2", cli.ErrUsage)
	}
	if cfg.Color && cfg.NoColor {
		return fmt.Errorf("%w: -color and -no-color are exclusive", cli.ErrUsage)
	}
	if cfg.Verbose {
		theLevel.Set(slog.LevelDebug)
	}
	debug.SetLogger(theLog)

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := cfg.loadConfig(wd); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}

	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}
