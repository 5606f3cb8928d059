package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "kdl").
		WithSynopsis("kdl [opts] command [opts]").
		WithDescription("kdl parses, checks and formats KDL documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return kdlMain(cfg, cc, args)
		}).
		WithSubs(
			CatCommand(cfg),
			FmtCommand(cfg),
			CheckCommand(cfg),
			TokenizeCommand(cfg))
}

func CatCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CatConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "indent",
			Description: "spaces per nesting level",
			Type:        cli.NamedFuncOpt(intOpt(&cfg.Indent), "(n)"),
		},
		&cli.Opt{
			Name:        "min-exp",
			Description: "smallest exponent written in scientific notation, 0 for never",
			Type:        cli.NamedFuncOpt(intOpt(&cfg.MinExp), "(n)"),
		})
	return cli.NewCommandAt(&cfg.Cat, "cat").
		WithAliases("c").
		WithSynopsis("cat [opts] [files]").
		WithDescription("parse documents and write them in canonical form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return cat(cfg, cc, args)
		})
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithAliases("f").
		WithSynopsis("fmt [-w] [-l] [-d] [files]").
		WithDescription("reformat documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return format(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithSynopsis("check files").
		WithDescription("report syntax errors as file:line:col: message").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func TokenizeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TokenizeConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Tokenize, "tokenize").
		WithAliases("tok").
		WithSynopsis("tokenize [file]").
		WithDescription("dump the token stream with positions").
		WithRun(func(cc *cli.Context, args []string) error {
			return tokenize(cfg, cc, args)
		})
}
