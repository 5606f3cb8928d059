package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-kdl"
)

func cat(cfg *CatConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cat.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return catReader(cfg, cc.Out, cc.In, "<stdin>")
	}
	return catFiles(cfg, cc.Out, cc.In, args)
}

// catFiles writes each file in turn; "-" names stdin.
func catFiles(cfg *CatConfig, w io.Writer, stdin io.Reader, files []string) error {
	for _, file := range files {
		if err := catFile(cfg, w, stdin, file); err != nil {
			return err
		}
	}
	return nil
}

func catFile(cfg *CatConfig, w io.Writer, stdin io.Reader, file string) error {
	if file == "-" {
		return catReader(cfg, w, stdin, "<stdin>")
	}
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", file, err)
	}
	defer f.Close()
	return catReader(cfg, w, f, file)
}

func catReader(cfg *CatConfig, w io.Writer, r io.Reader, name string) error {
	popts, err := cfg.parseOpts()
	if err != nil {
		return err
	}
	doc, err := kdl.NewDecoder(r, popts...).Decode()
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}
	eopts, err := cfg.emitterOptions(w)
	if err != nil {
		return err
	}
	theLog.Debug("emit", "file", name, "nodes", doc.Len())
	if err := kdl.NewEncoder(w, kdl.WithEmitterOptions(eopts)).Encode(doc); err != nil {
		return fmt.Errorf("error encoding %s: %w", name, err)
	}
	return nil
}
