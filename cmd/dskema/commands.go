package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "dskema").
		WithSynopsis("dskema [opts] command [opts]").
		WithDescription("dskema validates JSON and YAML documents against declarative schemas.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dskemaMain(cfg, cc, args)
		}).
		WithSubs(
			TypesCommand(cfg),
			CheckCommand(cfg))
}

func dskemaMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		theLog = newLogger(os.Stderr, true)
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

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Types, "types").
		WithAliases("t").
		WithSynopsis("types").
		WithDescription("list the built-in type names usable with -type and -field").
		WithRun(func(cc *cli.Context, args []string) error {
			return listTypes(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "field",
			Aliases:     []string{"f"},
			Description: "object property, repeatable: name:type[,optional][,unique]; dotted names nest",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.fieldOpt), "(name:type)"),
		},
		&cli.Opt{
			Name:        "expr",
			Aliases:     []string{"e"},
			Description: "define a named type from an expression over `value`, repeatable: name:code",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.exprOpt), "(name:code)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json, yaml (default from file extension)",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.formatOpt), "(format)"),
		})
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [opts] [files]").
		WithDescription("validate documents against a schema assembled from flags; uniqueness is tracked across all documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}
