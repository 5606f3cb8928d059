package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/KimNorgaard/go-kdl"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if cfg.Write || cfg.List {
			return fmt.Errorf("%w: -w and -l need file arguments", cli.ErrUsage)
		}
		src, err := io.ReadAll(cc.In)
		if err != nil {
			return err
		}
		return formatSource(cfg, cc.Out, "<stdin>", src)
	}
	for _, file := range args {
		if err := formatFile(cfg, cc.Out, file); err != nil {
			return err
		}
	}
	return nil
}

func formatFile(cfg *FmtConfig, w io.Writer, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return formatSource(cfg, w, file, src)
}

func formatSource(cfg *FmtConfig, w io.Writer, file string, src []byte) error {
	res, err := formatBytes(cfg, src)
	if err != nil {
		return fmt.Errorf("error formatting %s: %w", file, err)
	}
	changed := !bytes.Equal(src, res)

	if cfg.List && changed {
		if _, err := fmt.Fprintln(w, file); err != nil {
			return err
		}
	}
	if cfg.Diff && changed {
		if _, err := io.WriteString(w, lineDiff(file, string(src), string(res))); err != nil {
			return err
		}
	}
	if cfg.Write && changed {
		st, err := os.Stat(file)
		if err != nil {
			return err
		}
		if err := os.WriteFile(file, res, st.Mode().Perm()); err != nil {
			return err
		}
		theLog.Info("formatted", "file", file)
	}
	if !cfg.List && !cfg.Diff && !cfg.Write {
		_, err := w.Write(res)
		return err
	}
	return nil
}

func formatBytes(cfg *FmtConfig, src []byte) ([]byte, error) {
	popts, err := cfg.parseOpts()
	if err != nil {
		return nil, err
	}
	doc, err := kdl.Parse(src, popts...)
	if err != nil {
		return nil, err
	}
	eopts, err := cfg.emitterOptions()
	if err != nil {
		return nil, err
	}
	return kdl.Marshal(doc, kdl.WithEmitterOptions(eopts))
}

// lineDiff renders a line oriented diff of a and b.
func lineDiff(file, a, b string) string {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (formatted)\n", file, file)
	for _, d := range diffs {
		var mark string
		switch d.Type {
		case diffpatch.DiffInsert:
			mark = "+"
		case diffpatch.DiffDelete:
			mark = "-"
		default:
			mark = " "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(mark)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return sb.String()
}
