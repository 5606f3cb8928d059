package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-kdl"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check requires at least one file", cli.ErrUsage)
	}
	failed, err := checkFiles(cfg, cc.Out, args)
	if err != nil {
		return err
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFiles writes one line per invalid file and returns how many failed.
func checkFiles(cfg *CheckConfig, w io.Writer, files []string) (int, error) {
	popts, err := cfg.parseOpts()
	if err != nil {
		return 0, err
	}
	failed := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return failed, err
		}
		_, err = kdl.Parse(data, popts...)
		if err == nil {
			theLog.Debug("ok", "file", file)
			continue
		}
		failed++
		if _, werr := fmt.Fprintln(w, diagnostic(file, err)); werr != nil {
			return failed, werr
		}
	}
	return failed, nil
}

// diagnostic renders err as file:line:col: message.
func diagnostic(file string, err error) string {
	var perr *kdl.ParseError
	if !errors.As(err, &perr) {
		return fmt.Sprintf("%s: %v", file, err)
	}
	prefix := fmt.Sprintf("kdl: parse error at line %d, column %d: ", perr.Pos.Line, perr.Pos.Column)
	msg := strings.TrimPrefix(perr.Error(), prefix)
	return fmt.Sprintf("%s:%d:%d: %s", file, perr.Pos.Line, perr.Pos.Column, msg)
}
