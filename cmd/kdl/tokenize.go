package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/KimNorgaard/go-kdl/internal/lexer"
	"github.com/KimNorgaard/go-kdl/internal/token"
)

func tokenize(cfg *TokenizeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tokenize.Parse(cc, args)
	if err != nil {
		return err
	}
	switch len(args) {
	case 0:
		return tokenizeReader(cfg, cc.Out, cc.In)
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("could not open %q: %w", args[0], err)
		}
		defer f.Close()
		return tokenizeReader(cfg, cc.Out, f)
	}
	return fmt.Errorf("%w: tokenize takes at most one file", cli.ErrUsage)
}

func tokenizeReader(cfg *TokenizeConfig, w io.Writer, r io.Reader) error {
	version := lexer.VersionAuto
	switch {
	case cfg.V1:
		version = lexer.Version1
	case cfg.V2:
		version = lexer.Version2
	}
	l := lexer.New(r, lexer.WithVersion(version))
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return l.Err()
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal); err != nil {
			return err
		}
		if tok.Type == token.EOF {
			return nil
		}
	}
}
